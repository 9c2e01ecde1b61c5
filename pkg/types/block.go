// Package types defines the core data structures shared across the
// shielded pool: field-element hashes, addresses, and the wire-level
// cryptographic primitives the rest of the program builds on.
package types

import (
	"encoding/hex"
)

// HashSize is the size of a BN254 scalar-field element encoded as a
// 32-byte big-endian byte string.
const HashSize = 32

// AddressSize is the size of a program-derived / wallet address (a
// 32-byte public key, matching the host chain's account identifier
// width used throughout the PDA seed scheme).
const AddressSize = 32

// Hash represents a 32-byte field element or digest.
type Hash [HashSize]byte

// Address represents a 32-byte account identifier: a native token
// recipient, fee recipient, mint tag, or authority key.
type Address [AddressSize]byte

// EmptyHash is the zero hash. The Merkle engine treats it as the
// canonical "nothing here" value and the known-root check refuses to
// match it.
var EmptyHash = Hash{}

// EmptyAddress is the zero address.
var EmptyAddress = Address{}

// IsEmpty returns true if the hash is the all-zero value.
func (h Hash) IsEmpty() bool {
	return h == EmptyHash
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// String returns the hex string representation of the hash.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// HashFromBytes creates a Hash from a byte slice, truncating or
// left-zero-padding as needed.
func HashFromBytes(b []byte) Hash {
	var h Hash
	if len(b) >= HashSize {
		copy(h[:], b[len(b)-HashSize:])
	} else {
		copy(h[HashSize-len(b):], b)
	}
	return h
}

// IsEmpty returns true if the address is the all-zero value.
func (a Address) IsEmpty() bool {
	return a == EmptyAddress
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// String returns the hex string representation of the address.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// AddressFromBytes creates an Address from a byte slice, truncating or
// left-zero-padding as needed.
func AddressFromBytes(b []byte) Address {
	var a Address
	if len(b) >= AddressSize {
		copy(a[:], b[len(b)-AddressSize:])
	} else {
		copy(a[AddressSize-len(b):], b)
	}
	return a
}
