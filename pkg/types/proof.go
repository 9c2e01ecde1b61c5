package types

// NumPublicSignals is the fixed count and order of Groth16 public
// signals: root, public_amount, ext_data_hash, nullifier_0,
// nullifier_1, commitment_0, commitment_1.
const NumPublicSignals = 7

const (
	SignalRoot = iota
	SignalPublicAmount
	SignalExtDataHash
	SignalNullifier0
	SignalNullifier1
	SignalCommitment0
	SignalCommitment1
)

// Proof is the wire-format Groth16 proof: A and C are 64-byte G1
// points (two 32-byte big-endian coordinates each, A pre-negated by
// the submitter); B is a 128-byte G2 point.
type Proof struct {
	A [64]byte
	B [128]byte
	C [64]byte
}

// PublicSignals holds the seven ordered 32-byte field elements a
// transact call submits alongside its proof.
type PublicSignals [NumPublicSignals]Hash

// VerifyingKey is the Groth16 verifying key: alpha, beta, gamma,
// delta, and one IC entry per public signal plus the constant term.
type VerifyingKey struct {
	Alpha [64]byte
	Beta  [128]byte
	Gamma [128]byte
	Delta [128]byte
	IC    [][64]byte // len = NumPublicSignals + 1
}
