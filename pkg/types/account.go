package types

// NullifierAccount is a zero-payload singleton: its existence alone
// means the nullifier has been spent. Never mutated, never closed.
type NullifierAccount struct {
	Nullifier Hash
	Bump      uint8
}

// CommitmentAccount is a singleton keyed on a commitment value; its
// payload is the encrypted note blob supplied with the transaction
// that created it. Immutable after creation.
type CommitmentAccount struct {
	Commitment   Hash
	EncryptedNote []byte
	Bump         uint8
}

// PDA seed tags, fixed for on-chain address derivation.
const (
	SeedNullifier0 = "nullifier0"
	SeedNullifier1 = "nullifier1"
	SeedCommitment0 = "commitment0"
	SeedCommitment1 = "commitment1"
	SeedTree        = "merkle_tree"
	SeedVault       = "tree_token"
	SeedConfig      = "global_config"
)
