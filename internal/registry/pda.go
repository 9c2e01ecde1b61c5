// Package registry implements the nullifier and commitment uniqueness
// oracle: PDA-style singleton accounts whose mere existence records
// "already spent" or "already inserted", plus the cross-check seed
// scheme that closes the slot-swap replay (§4.5).
package registry

import (
	"crypto/sha256"

	"github.com/shieldpool/core/pkg/types"
)

// DerivePDA deterministically derives an address from a seed tuple.
// The real on-chain program derives addresses via a host-specific
// bump-seed search; this core only needs the derivation to be a
// stable, collision-resistant function of its seeds, which SHA-256
// over the concatenated, length-prefixed seed tuple provides.
func DerivePDA(seeds ...[]byte) types.Address {
	h := sha256.New()
	for _, s := range seeds {
		var lenBuf [4]byte
		lenBuf[0] = byte(len(s) >> 24)
		lenBuf[1] = byte(len(s) >> 16)
		lenBuf[2] = byte(len(s) >> 8)
		lenBuf[3] = byte(len(s))
		h.Write(lenBuf[:])
		h.Write(s)
	}
	return types.AddressFromBytes(h.Sum(nil))
}

// NullifierSlots derives the four nullifier account addresses
// required by a transact call: the two primary slots and their two
// cross-check counterparts (§6, §4.5).
type NullifierSlots struct {
	Nullifier0 types.Address // seed (tag0, signals[3])
	Nullifier1 types.Address // seed (tag1, signals[4])
	Nullifier2 types.Address // seed (tag0, signals[4]) - cross-check
	Nullifier3 types.Address // seed (tag1, signals[3]) - cross-check
}

// DeriveNullifierSlots computes the four PDAs for a pair of claimed
// nullifier values (signals[3], signals[4]).
func DeriveNullifierSlots(nullifier0, nullifier1 types.Hash) NullifierSlots {
	return NullifierSlots{
		Nullifier0: DerivePDA([]byte(types.SeedNullifier0), nullifier0.Bytes()),
		Nullifier1: DerivePDA([]byte(types.SeedNullifier1), nullifier1.Bytes()),
		Nullifier2: DerivePDA([]byte(types.SeedNullifier0), nullifier1.Bytes()),
		Nullifier3: DerivePDA([]byte(types.SeedNullifier1), nullifier0.Bytes()),
	}
}

// DeriveCommitmentSlot computes the PDA for a commitment value under
// the given seed tag (commitment0 or commitment1).
func DeriveCommitmentSlot(tag string, commitment types.Hash) types.Address {
	return DerivePDA([]byte(tag), commitment.Bytes())
}

// DeriveTreeAddress, DeriveVaultAddress and DeriveConfigAddress derive
// the protocol's three process-wide singleton accounts (§6).
func DeriveTreeAddress() types.Address   { return DerivePDA([]byte(types.SeedTree)) }
func DeriveVaultAddress() types.Address  { return DerivePDA([]byte(types.SeedVault)) }
func DeriveConfigAddress() types.Address { return DerivePDA([]byte(types.SeedConfig)) }
