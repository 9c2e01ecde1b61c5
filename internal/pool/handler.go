package pool

import (
	"context"
	"fmt"
	"math"

	"github.com/shieldpool/core/internal/extdata"
	"github.com/shieldpool/core/internal/field"
	"github.com/shieldpool/core/internal/groth16verify"
	"github.com/shieldpool/core/internal/merkle"
	"github.com/shieldpool/core/internal/registry"
	"github.com/shieldpool/core/pkg/types"
)

// Handler is the transact entry point. It holds no per-call mutable
// state of its own; every call receives the accounts it touches
// (tree, vault, registry, config) explicitly, mirroring the host's
// exclusive-lock-per-writable-account model (§5) and keeping the
// handler a pure, synchronous function of its inputs (§9).
type Handler struct {
	Tree          *merkle.Engine
	Registry      registry.AccountRegistry
	VerifyingKey  *groth16verify.VerifyingKey
	NativeAsset   types.Address
}

// NewHandler constructs a Handler pinned to a single native-asset tag.
func NewHandler(tree *merkle.Engine, reg registry.AccountRegistry, vk *groth16verify.VerifyingKey, nativeAsset types.Address) *Handler {
	return &Handler{Tree: tree, Registry: reg, VerifyingKey: vk, NativeAsset: nativeAsset}
}

// TransactRequest is the full set of accounts and parameters a
// transact call supplies, after the minified ext data has been
// reconstructed from the named recipient/fee-recipient accounts.
type TransactRequest struct {
	Proof             types.Proof
	Signals           types.PublicSignals
	ExtAmount         int64
	Fee               uint64
	Recipient         types.Address
	FeeRecipient       types.Address
	MintAddress       types.Address
	EncryptedOutput1  []byte
	EncryptedOutput2  []byte
}

// TransactResult reports the post-call state a caller needs to
// persist: the two new leaf indices and the accepted commitments'
// account addresses (so the caller can actually write the accounts).
type TransactResult struct {
	NewRoot           types.Hash
	LeafIndex0        uint64
	LeafIndex1        uint64
	Nullifier0Address types.Address
	Nullifier1Address types.Address
	Commitment0Address types.Address
	Commitment1Address types.Address
}

// Transact runs the full state machine of §4.5:
//   PRE-CHECK → EXTDATA-HASH → ROOT-KNOWN → GROTH16 → NULLIFIER-UNIQ(4) →
//   COMMITMENT-UNIQ(2) → VALUE-MOVE → TREE-INSERT-1 → TREE-INSERT-2 → ACCEPT
// Every check up to and including COMMITMENT-UNIQ(2) and the tree
// capacity check returns before ts, the registry or the vault is
// mutated. A failure after VALUE-MOVE (account creation or a tree
// insert) returns with the mutations already made by this call left
// in place. The caller is expected to only
// persist ts/vault/registry changes after Transact returns nil,
// giving the same all-or-nothing semantics the host's atomic
// instruction rollback provides on-chain.
func (h *Handler) Transact(ctx context.Context, ts *types.TreeState, cfg *types.GlobalConfig, vault *Vault, req *TransactRequest) (*TransactResult, error) {
	// PRE-CHECK
	if err := h.preCheck(ts, cfg, req); err != nil {
		return nil, err
	}

	// EXTDATA-HASH
	extData := &types.ExtData{
		Recipient:        req.Recipient,
		ExtAmount:        req.ExtAmount,
		EncryptedOutput1: req.EncryptedOutput1,
		EncryptedOutput2: req.EncryptedOutput2,
		Fee:              req.Fee,
		MintAddress:      req.MintAddress,
	}
	computedHash := extdata.Hash(extData)
	if computedHash != req.Signals[types.SignalExtDataHash] {
		return nil, types.NewError(types.ErrExtDataHashMismatch, "recomputed hash does not match public signal")
	}

	// ROOT-KNOWN
	if !merkle.IsKnownRoot(ts, req.Signals[types.SignalRoot]) {
		return nil, types.NewError(types.ErrUnknownRoot, "root not in history or zero")
	}

	// signal[1] must equal the signed (ext_amount - fee)
	netAmount, err := signedNet(req.ExtAmount, req.Fee)
	if err != nil {
		return nil, err
	}
	expectedAmountSignal := field.EncodeSigned(netAmount)
	if expectedAmountSignal != req.Signals[types.SignalPublicAmount] {
		return nil, types.NewError(types.ErrInvalidProof, "public_amount signal mismatch")
	}

	// GROTH16
	if h.VerifyingKey != nil {
		if err := groth16verify.Verify(h.VerifyingKey, &req.Proof, req.Signals); err != nil {
			return nil, types.NewError(types.ErrInvalidProof, err.Error())
		}
	}

	// NULLIFIER-UNIQ(4)
	slots := registry.DeriveNullifierSlots(req.Signals[types.SignalNullifier0], req.Signals[types.SignalNullifier1])
	for _, addr := range []types.Address{slots.Nullifier0, slots.Nullifier1, slots.Nullifier2, slots.Nullifier3} {
		exists, err := h.Registry.NullifierExists(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("pool: nullifier existence check: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("pool: %w: nullifier slot already spent", registry.ErrAlreadyExists)
		}
	}

	// COMMITMENT-UNIQ(2)
	commitment0Addr := registry.DeriveCommitmentSlot(types.SeedCommitment0, req.Signals[types.SignalCommitment0])
	commitment1Addr := registry.DeriveCommitmentSlot(types.SeedCommitment1, req.Signals[types.SignalCommitment1])
	for _, addr := range []types.Address{commitment0Addr, commitment1Addr} {
		exists, err := h.Registry.CommitmentExists(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("pool: commitment existence check: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("pool: %w: commitment already inserted", registry.ErrAlreadyExists)
		}
	}

	if !merkle.HasCapacityFor(ts, 2) {
		return nil, types.NewError(types.ErrTreeFull, "tree cannot accept two more leaves")
	}

	// VALUE-MOVE
	movement, err := PlanMovement(req.ExtAmount, req.Fee)
	if err != nil {
		return nil, err
	}
	if err := vault.Apply(movement); err != nil {
		return nil, err
	}

	// create the nullifier singletons (primary slots only; the
	// cross-check slots exist purely as a non-existence constraint
	// and are never themselves created, per §4.5)
	if err := h.Registry.CreateNullifier(ctx, slots.Nullifier0, &types.NullifierAccount{Nullifier: req.Signals[types.SignalNullifier0]}); err != nil {
		return nil, fmt.Errorf("pool: create nullifier0: %w", err)
	}
	if err := h.Registry.CreateNullifier(ctx, slots.Nullifier1, &types.NullifierAccount{Nullifier: req.Signals[types.SignalNullifier1]}); err != nil {
		return nil, fmt.Errorf("pool: create nullifier1: %w", err)
	}

	if err := h.Registry.CreateCommitment(ctx, commitment0Addr, &types.CommitmentAccount{
		Commitment:    req.Signals[types.SignalCommitment0],
		EncryptedNote: req.EncryptedOutput1,
	}); err != nil {
		return nil, fmt.Errorf("pool: create commitment0: %w", err)
	}
	if err := h.Registry.CreateCommitment(ctx, commitment1Addr, &types.CommitmentAccount{
		Commitment:    req.Signals[types.SignalCommitment1],
		EncryptedNote: req.EncryptedOutput2,
	}); err != nil {
		return nil, fmt.Errorf("pool: create commitment1: %w", err)
	}

	// TREE-INSERT-1, TREE-INSERT-2
	newRoot, idx0, err := h.Tree.Insert(ctx, ts, req.Signals[types.SignalCommitment0])
	if err != nil {
		return nil, fmt.Errorf("pool: insert commitment0: %w", err)
	}
	newRoot, idx1, err := h.Tree.Insert(ctx, ts, req.Signals[types.SignalCommitment1])
	if err != nil {
		return nil, fmt.Errorf("pool: insert commitment1: %w", err)
	}

	// ACCEPT
	return &TransactResult{
		NewRoot:             newRoot,
		LeafIndex0:          idx0,
		LeafIndex1:          idx1,
		Nullifier0Address:   slots.Nullifier0,
		Nullifier1Address:   slots.Nullifier1,
		Commitment0Address:  commitment0Addr,
		Commitment1Address:  commitment1Addr,
	}, nil
}

// preCheck runs the policy checks that must fail before any
// cryptographic work (§4.5).
func (h *Handler) preCheck(ts *types.TreeState, cfg *types.GlobalConfig, req *TransactRequest) error {
	absAmount, ok := absInt64(req.ExtAmount)
	if !ok {
		return types.NewError(types.ErrArithmeticOverflow, "abs(ext_amount)")
	}

	if absAmount < req.Fee {
		return types.NewError(types.ErrInvalidFeeRate, "fee exceeds abs(ext_amount)")
	}

	rate := cfg.WithdrawalFeeRateBps
	if req.ExtAmount > 0 {
		rate = cfg.DepositFeeRateBps
	}
	maxFeeNumerator := absAmount * uint64(rate+cfg.FeeErrorMarginBps)
	maxFee := maxFeeNumerator / types.FeeRateDenominator
	if req.Fee > maxFee {
		return types.NewError(types.ErrInvalidFeeRate, "fee exceeds policy bound")
	}

	if req.ExtAmount > 0 && uint64(req.ExtAmount) > ts.MaxDepositAmount {
		return types.NewError(types.ErrDepositLimitExceeded, "")
	}

	if req.MintAddress != h.NativeAsset {
		return types.NewError(types.ErrInvalidMintAddress, "")
	}

	return nil
}

func absInt64(n int64) (uint64, bool) {
	if n == -(1 << 63) {
		return 0, false
	}
	if n < 0 {
		return uint64(-n), true
	}
	return uint64(n), true
}

// signedNet computes ext_amount - fee as a signed value without
// wrapping int64, returning ArithmeticOverflow on failure.
func signedNet(extAmount int64, fee uint64) (int64, error) {
	if fee > 1<<62 {
		return 0, types.NewError(types.ErrArithmeticOverflow, "fee out of range")
	}
	if extAmount < math.MinInt64+int64(fee) {
		return 0, types.NewError(types.ErrArithmeticOverflow, "ext_amount - fee")
	}
	net := extAmount - int64(fee)
	return net, nil
}
