package types

// Note is an off-chain spendable unit (a "UTXO"). It never appears
// on-chain in full; only its commitment (a tree leaf) and, once
// spent, its nullifier (an existence marker) do.
type Note struct {
	Amount      uint64
	OwnerPubkey Hash // element of F_r
	Blinding    Hash // element of F_r
	Asset       Address
}

// TreeHeight is the fixed height of the Merkle tree.
const TreeHeight = 26

// RootHistorySize is the number of most-recent roots retained in the
// ring buffer used by is_known_root.
const RootHistorySize = 100

// FeeRateDenominator is the basis-points denominator used for
// deposit_fee_rate, withdrawal_fee_rate and fee_error_margin.
const FeeRateDenominator = 10_000

// MaxFeeRateBasisPoints is the largest value any rate or margin field
// may take.
const MaxFeeRateBasisPoints = 10_000

// DefaultMaxDepositAmount is the tree's default deposit cap, set by
// initialize().
const DefaultMaxDepositAmount = 1_000

// TreeState is the on-chain state of the append-only Merkle tree.
type TreeState struct {
	Height           uint8
	NextIndex        uint64
	Subtrees         [TreeHeight + 1]Hash
	Root             Hash
	RootHistory      [RootHistorySize]Hash
	RootIndex        uint32
	MaxDepositAmount uint64
	Authority        Address
	Bump             uint8
}

// Capacity returns 2^Height, the maximum number of leaves the tree can hold.
func (t *TreeState) Capacity() uint64 {
	return uint64(1) << t.Height
}

// GlobalConfig is the protocol-wide fee and authority configuration.
type GlobalConfig struct {
	DepositFeeRateBps    uint16
	WithdrawalFeeRateBps uint16
	FeeErrorMarginBps    uint16
	Authority            Address
	Bump                 uint8
}

// DefaultGlobalConfig returns the configuration written by initialize().
func DefaultGlobalConfig(authority Address) *GlobalConfig {
	return &GlobalConfig{
		DepositFeeRateBps:    0,
		WithdrawalFeeRateBps: 0,
		FeeErrorMarginBps:    0,
		Authority:            authority,
	}
}
