// Package pool implements the transact state machine: the handler
// that validates a shielded transfer, verifies its proof, enforces
// nullifier/commitment uniqueness, moves native-token value, and
// mutates the Merkle tree — all as one atomic step (§4.5, §5).
package pool

import (
	"github.com/shieldpool/core/pkg/common"
	"github.com/shieldpool/core/pkg/types"
)

// Vault holds the pool's native-token balance. All movement is
// checked arithmetic; any would-be overflow or underflow is reported
// rather than silently wrapping, since a fund-loss bug here is the
// one mistake this whole design exists to prevent (§4.5).
type Vault struct {
	Balance uint64
}

// Movement describes one transact call's value flow, computed by
// PlanMovement before anything is actually transferred.
type Movement struct {
	SignerToVault   uint64
	VaultToFee      uint64
	VaultToRecipient uint64
	VaultDelta      int64 // signed net change to vault.Balance
}

// PlanMovement computes the three possible value-flow shapes of
// §4.5: deposit (extAmount > 0), withdrawal (extAmount < 0), or
// internal transfer (extAmount == 0). It never mutates the vault; the
// caller applies the plan with Apply once every earlier state-machine
// step has already succeeded.
func PlanMovement(extAmount int64, fee uint64) (*Movement, error) {
	switch {
	case extAmount > 0:
		amount := uint64(extAmount)
		vaultNet, ok := common.CheckedSubU64(amount, fee)
		if !ok {
			return nil, types.NewError(types.ErrArithmeticOverflow, "deposit: amount - fee")
		}
		return &Movement{
			SignerToVault: amount,
			VaultToFee:    fee,
			VaultDelta:    int64(vaultNet),
		}, nil

	case extAmount < 0:
		absAmount, ok := common.CheckedAbsI64(extAmount)
		if !ok {
			return nil, types.NewError(types.ErrArithmeticOverflow, "withdrawal: abs(ext_amount)")
		}
		toRecipient, ok := common.CheckedSubU64(absAmount, fee)
		if !ok {
			return nil, types.NewError(types.ErrArithmeticOverflow, "withdrawal: amount - fee")
		}
		outgoing, ok := common.CheckedAddU64(toRecipient, fee)
		if !ok {
			return nil, types.NewError(types.ErrArithmeticOverflow, "withdrawal: total outgoing")
		}
		return &Movement{
			VaultToRecipient: toRecipient,
			VaultToFee:       fee,
			VaultDelta:       -int64(outgoing),
		}, nil

	default: // internal transfer with tip
		return &Movement{
			VaultToFee: fee,
			VaultDelta: -int64(fee),
		}, nil
	}
}

// Apply transfers the planned value and updates the vault balance,
// failing ArithmeticOverflow if the vault lacks sufficient balance for
// the outgoing sum.
func (v *Vault) Apply(m *Movement) error {
	outgoing, ok := common.CheckedAddU64(m.VaultToFee, m.VaultToRecipient)
	if !ok {
		return types.NewError(types.ErrArithmeticOverflow, "outgoing sum")
	}
	if outgoing > v.Balance+m.SignerToVault {
		return types.NewError(types.ErrArithmeticOverflow, "vault balance insufficient for outgoing transfer")
	}

	balance := v.Balance
	var ok2 bool
	if m.SignerToVault > 0 {
		balance, ok2 = common.CheckedAddU64(balance, m.SignerToVault)
		if !ok2 {
			return types.NewError(types.ErrArithmeticOverflow, "vault balance + signer deposit")
		}
	}
	balance, ok2 = common.CheckedSubU64(balance, outgoing)
	if !ok2 {
		return types.NewError(types.ErrArithmeticOverflow, "vault balance - outgoing")
	}

	v.Balance = balance
	return nil
}
