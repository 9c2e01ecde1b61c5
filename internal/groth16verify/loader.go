package groth16verify

import (
	"fmt"
	"io"

	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"github.com/shieldpool/core/pkg/types"
)

// LoadVerifyingKeyFromTrustedSetup reads a verifying key produced by
// the (out-of-scope) trusted setup ceremony using gnark's own BN254
// groth16.VerifyingKey wire format, then re-encodes its curve points
// into this protocol's flat 64/128-byte wire layout for
// DecodeVerifyingKey. gnark's reader is reused purely as a
// well-tested BN254 key deserializer; the resulting *types.VerifyingKey
// is otherwise independent of gnark's own verification path, since
// this protocol recomputes the pairing check itself (§4.3) rather
// than calling groth16.Verify.
func LoadVerifyingKeyFromTrustedSetup(r io.Reader) (*types.VerifyingKey, error) {
	var vk groth16bn254.VerifyingKey
	if _, err := vk.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("groth16verify: read verifying key: %w", err)
	}

	wire := &types.VerifyingKey{}

	alphaBytes := vk.G1.Alpha.Marshal()
	if len(alphaBytes) != 64 {
		return nil, fmt.Errorf("groth16verify: unexpected G1 marshal size %d", len(alphaBytes))
	}
	copy(wire.Alpha[:], alphaBytes)

	if err := packG2(&wire.Beta, vk.G2.Beta.Marshal()); err != nil {
		return nil, fmt.Errorf("groth16verify: beta: %w", err)
	}
	if err := packG2(&wire.Gamma, vk.G2.Gamma.Marshal()); err != nil {
		return nil, fmt.Errorf("groth16verify: gamma: %w", err)
	}
	if err := packG2(&wire.Delta, vk.G2.Delta.Marshal()); err != nil {
		return nil, fmt.Errorf("groth16verify: delta: %w", err)
	}

	if len(vk.G1.K) != types.NumPublicSignals+1 {
		return nil, fmt.Errorf("groth16verify: expected %d IC entries, got %d", types.NumPublicSignals+1, len(vk.G1.K))
	}
	wire.IC = make([][64]byte, len(vk.G1.K))
	for i, p := range vk.G1.K {
		b := p.Marshal()
		if len(b) != 64 {
			return nil, fmt.Errorf("groth16verify: IC[%d]: unexpected G1 marshal size %d", i, len(b))
		}
		copy(wire.IC[i][:], b)
	}

	return wire, nil
}

// packG2 re-orders gnark-crypto's natural G2 marshal layout
// (X.A0‖X.A1‖Y.A0‖Y.A1) into this protocol's swapped wire convention
// (X.c1‖X.c0‖Y.c1‖Y.c0), documented in SPEC_FULL.md §13.
func packG2(dst *[128]byte, natural []byte) error {
	if len(natural) != 128 {
		return fmt.Errorf("unexpected G2 marshal size %d", len(natural))
	}
	copy(dst[0:32], natural[32:64])
	copy(dst[32:64], natural[0:32])
	copy(dst[64:96], natural[96:128])
	copy(dst[96:128], natural[64:96])
	return nil
}
