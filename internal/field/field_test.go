package field

import (
	"math/big"
	"testing"

	"github.com/shieldpool/core/pkg/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n := big.NewInt(123456789)
	h := Encode(n)

	decoded, err := Decode(h)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Cmp(n) != 0 {
		t.Fatalf("round trip mismatch: got %s, want %s", decoded, n)
	}
}

func TestDecodeRejectsNonCanonical(t *testing.T) {
	h := Encode(Modulus) // r itself is not < r
	if _, err := Decode(h); err == nil {
		t.Fatal("expected error decoding r as a field element")
	}
}

func TestEncodeSignedNonNegative(t *testing.T) {
	h := EncodeSigned(42)
	want := Encode(big.NewInt(42))
	if h != want {
		t.Fatalf("EncodeSigned(42) = %s, want %s", h, want)
	}
}

func TestEncodeSignedNegative(t *testing.T) {
	h := EncodeSigned(-1)
	n, err := Decode(h)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := new(big.Int).Sub(Modulus, big.NewInt(1))
	if n.Cmp(want) != 0 {
		t.Fatalf("EncodeSigned(-1) = %s, want %s", n, want)
	}
}

func TestPoseidonDeterministic(t *testing.T) {
	a := Encode(big.NewInt(1))
	b := Encode(big.NewInt(2))

	h1, err := Poseidon(a, b)
	if err != nil {
		t.Fatalf("poseidon failed: %v", err)
	}
	h2, err := Poseidon(a, b)
	if err != nil {
		t.Fatalf("poseidon failed: %v", err)
	}
	if h1 != h2 {
		t.Fatal("poseidon is not deterministic")
	}
}

func TestPoseidonOrderSensitive(t *testing.T) {
	a := Encode(big.NewInt(1))
	b := Encode(big.NewInt(2))

	ab, err := Poseidon(a, b)
	if err != nil {
		t.Fatalf("poseidon failed: %v", err)
	}
	ba, err := Poseidon(b, a)
	if err != nil {
		t.Fatalf("poseidon failed: %v", err)
	}
	if ab == ba {
		t.Fatal("poseidon(a,b) should differ from poseidon(b,a)")
	}
}

func TestPoseidonRejectsEmptyAndOversizedArity(t *testing.T) {
	if _, err := Poseidon(); err == nil {
		t.Fatal("expected error for zero inputs")
	}

	inputs := make([]types.Hash, MaxPoseidonInputs+1)
	if _, err := Poseidon(inputs...); err == nil {
		t.Fatal("expected error for arity above MaxPoseidonInputs")
	}
}

func TestEmptySubtreeMatchesRecursiveDefinition(t *testing.T) {
	zero, err := EmptySubtree(0)
	if err != nil {
		t.Fatalf("EmptySubtree(0) failed: %v", err)
	}
	if zero != types.EmptyHash {
		t.Fatalf("EmptySubtree(0) = %s, want zero hash", zero)
	}

	one, err := EmptySubtree(1)
	if err != nil {
		t.Fatalf("EmptySubtree(1) failed: %v", err)
	}
	want, err := Poseidon(zero, zero)
	if err != nil {
		t.Fatalf("poseidon failed: %v", err)
	}
	if one != want {
		t.Fatalf("EmptySubtree(1) = %s, want %s", one, want)
	}
}

func TestNoteCommitmentDeterministic(t *testing.T) {
	note := types.Note{
		Amount:      1000,
		OwnerPubkey: Encode(big.NewInt(7)),
		Blinding:    Encode(big.NewInt(9)),
		Asset:       types.Address{0x01},
	}

	c1, err := NoteCommitment(note)
	if err != nil {
		t.Fatalf("commitment failed: %v", err)
	}
	c2, err := NoteCommitment(note)
	if err != nil {
		t.Fatalf("commitment failed: %v", err)
	}
	if c1 != c2 {
		t.Fatal("note commitment is not deterministic")
	}
}

func TestNoteCommitmentChangesWithAmount(t *testing.T) {
	base := types.Note{
		Amount:      1000,
		OwnerPubkey: Encode(big.NewInt(7)),
		Blinding:    Encode(big.NewInt(9)),
		Asset:       types.Address{0x01},
	}
	c1, err := NoteCommitment(base)
	if err != nil {
		t.Fatalf("commitment failed: %v", err)
	}

	changed := base
	changed.Amount = 1001
	c2, err := NoteCommitment(changed)
	if err != nil {
		t.Fatalf("commitment failed: %v", err)
	}

	if c1 == c2 {
		t.Fatal("commitments for different amounts should differ")
	}
}
