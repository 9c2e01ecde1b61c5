// Package common provides shared byte/arithmetic utilities used
// across the shielded pool's packages.
package common

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"
	"math/big"
	"time"
)

// Common errors
var (
	ErrInvalidHash      = errors.New("invalid hash")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
)

// HexToBytes converts a hex string to bytes
func HexToBytes(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}

// BytesToHex converts bytes to a hex string with 0x prefix
func BytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// RandomBytes generates n random bytes
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Now returns the current Unix timestamp
func Now() uint64 {
	return uint64(time.Now().Unix())
}

// BigIntToBytes converts a big.Int to a fixed-size byte slice
func BigIntToBytes(n *big.Int, size int) []byte {
	if n == nil {
		return make([]byte, size)
	}
	b := n.Bytes()
	if len(b) >= size {
		return b[len(b)-size:]
	}
	result := make([]byte, size)
	copy(result[size-len(b):], b)
	return result
}

// BytesToBigInt converts a byte slice to big.Int
func BytesToBigInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// Uint64ToBytesLE converts uint64 to bytes (little endian), matching
// the extData binder's wire layout.
func Uint64ToBytesLE(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}

// Uint32ToBytesLE converts uint32 to bytes (little endian).
func Uint32ToBytesLE(n uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, n)
	return b
}

// Int64ToBytesLE converts int64 to bytes (little endian, two's complement).
func Int64ToBytesLE(n int64) []byte {
	return Uint64ToBytesLE(uint64(n))
}

// IsZeroBytes checks if all bytes are zero
func IsZeroBytes(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// CopyBytes returns a copy of a byte slice
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// ConcatBytes concatenates multiple byte slices
func ConcatBytes(slices ...[]byte) []byte {
	totalLen := 0
	for _, s := range slices {
		totalLen += len(s)
	}
	result := make([]byte, totalLen)
	offset := 0
	for _, s := range slices {
		copy(result[offset:], s)
		offset += len(s)
	}
	return result
}

// CheckedAddU64 adds a and b, returning ok=false on overflow. This is
// the arithmetic primitive behind every value-movement step in the
// transact handler, which must never wrap silently.
func CheckedAddU64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// CheckedSubU64 subtracts b from a, returning ok=false on underflow.
func CheckedSubU64(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// CheckedMulU64 multiplies a and b, returning ok=false on overflow.
func CheckedMulU64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	if product/a != b {
		return 0, false
	}
	return product, true
}

// CheckedAbsI64 returns the absolute value of n as a uint64, failing
// only on the one value (math.MinInt64) that has no positive
// counterpart representable in int64.
func CheckedAbsI64(n int64) (uint64, bool) {
	if n == math.MinInt64 {
		return 0, false
	}
	if n < 0 {
		return uint64(-n), true
	}
	return uint64(n), true
}
