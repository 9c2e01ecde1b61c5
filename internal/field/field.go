// Package field implements BN254 scalar-field codecs and the
// Poseidon hash the circuit and host must agree on bit-for-bit.
package field

import (
	"errors"
	"math/big"

	"github.com/shieldpool/core/pkg/types"
)

// Modulus is r, the scalar field modulus of BN254.
var Modulus, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

// ErrNotCanonical is returned when a 32-byte encoding represents a
// value ≥ r, which is not a valid element of F_r.
var ErrNotCanonical = errors.New("field: value is not less than the field modulus")

// Encode returns the canonical 32-byte big-endian encoding of n. n
// must already be reduced mod r by the caller; Encode does not reduce.
func Encode(n *big.Int) types.Hash {
	b := n.Bytes()
	var h types.Hash
	if len(b) > types.HashSize {
		b = b[len(b)-types.HashSize:]
	}
	copy(h[types.HashSize-len(b):], b)
	return h
}

// Decode parses a 32-byte big-endian encoding into a field element,
// failing if the value is not canonically less than r.
func Decode(h types.Hash) (*big.Int, error) {
	n := new(big.Int).SetBytes(h[:])
	if n.Cmp(Modulus) >= 0 {
		return nil, ErrNotCanonical
	}
	return n, nil
}

// Reduce reduces an arbitrary non-negative integer modulo r and
// returns its canonical 32-byte encoding.
func Reduce(n *big.Int) types.Hash {
	r := new(big.Int).Mod(n, Modulus)
	return Encode(r)
}

// EncodeSigned maps a signed amount into F_r per the convention used
// for public_signal[1]: values ≥ 0 encode as themselves, values < 0
// encode as r - |value|.
func EncodeSigned(v int64) types.Hash {
	if v >= 0 {
		return Encode(big.NewInt(v))
	}
	abs := new(big.Int).Abs(big.NewInt(v))
	n := new(big.Int).Sub(Modulus, abs)
	return Encode(n)
}

// Add returns (a + b) mod r.
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Add(a, b), Modulus)
}

// IsCanonical reports whether h encodes a value strictly less than r.
func IsCanonical(h types.Hash) bool {
	n := new(big.Int).SetBytes(h[:])
	return n.Cmp(Modulus) < 0
}
