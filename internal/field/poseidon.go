package field

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/shieldpool/core/pkg/types"
)

// MaxPoseidonInputs is the largest arity the iden3 Poseidon
// parameterization supports; the circuit never exceeds it either.
const MaxPoseidonInputs = 12

// Poseidon hashes 1..12 field elements, matching the circuit's
// parameter set bit-for-bit. Inputs that are not canonical field
// elements (≥ r) are rejected rather than silently reduced, since a
// non-canonical input would already have been rejected by the
// circuit's range checks.
func Poseidon(inputs ...types.Hash) (types.Hash, error) {
	if len(inputs) == 0 || len(inputs) > MaxPoseidonInputs {
		return types.Hash{}, fmt.Errorf("field: poseidon arity %d out of range [1,%d]", len(inputs), MaxPoseidonInputs)
	}

	ints := make([]*big.Int, len(inputs))
	for i, h := range inputs {
		n, err := Decode(h)
		if err != nil {
			return types.Hash{}, fmt.Errorf("field: poseidon input %d: %w", i, err)
		}
		ints[i] = n
	}

	out, err := poseidon.Hash(ints)
	if err != nil {
		return types.Hash{}, fmt.Errorf("field: poseidon: %w", err)
	}

	return Encode(out), nil
}

// PoseidonBigInt is the big.Int-valued variant of Poseidon for
// callers already working in that representation (the note commitment
// derivation below).
func PoseidonBigInt(inputs ...*big.Int) (*big.Int, error) {
	if len(inputs) == 0 || len(inputs) > MaxPoseidonInputs {
		return nil, fmt.Errorf("field: poseidon arity %d out of range [1,%d]", len(inputs), MaxPoseidonInputs)
	}
	return poseidon.Hash(inputs)
}

// NoteCommitment computes Poseidon(amount, owner_pubkey, blinding, asset).
func NoteCommitment(note types.Note) (types.Hash, error) {
	amount := new(big.Int).SetUint64(note.Amount)
	asset := new(big.Int).SetBytes(note.Asset[:])
	asset.Mod(asset, Modulus)

	owner, err := Decode(note.OwnerPubkey)
	if err != nil {
		return types.Hash{}, fmt.Errorf("field: note commitment owner_pubkey: %w", err)
	}
	blinding, err := Decode(note.Blinding)
	if err != nil {
		return types.Hash{}, fmt.Errorf("field: note commitment blinding: %w", err)
	}

	out, err := PoseidonBigInt(amount, owner, blinding, asset)
	if err != nil {
		return types.Hash{}, err
	}
	return Encode(out), nil
}

// EmptySubtree computes empty_subtree(k) per I1: empty_subtree(0) = 0,
// empty_subtree(k) = Poseidon(empty_subtree(k-1), empty_subtree(k-1)).
func EmptySubtree(k int) (types.Hash, error) {
	if k == 0 {
		return types.EmptyHash, nil
	}
	child, err := EmptySubtree(k - 1)
	if err != nil {
		return types.Hash{}, err
	}
	return Poseidon(child, child)
}
