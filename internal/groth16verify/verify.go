// Package groth16verify implements the Groth16 pairing check over
// BN254 against this protocol's packed public-input order, using
// gnark-crypto's curve arithmetic directly rather than gnark's own
// groth16.Verify (whose native proof serialization does not match
// this protocol's wire format or G2 endianness convention).
package groth16verify

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/shieldpool/core/pkg/types"
)

// ErrInvalidProof is returned when the pairing check fails.
var ErrInvalidProof = fmt.Errorf("groth16verify: pairing check failed")

// VerifyingKey is the decoded, curve-typed form of types.VerifyingKey.
type VerifyingKey struct {
	Alpha bn254.G1Affine
	Beta  bn254.G2Affine
	Gamma bn254.G2Affine
	Delta bn254.G2Affine
	IC    []bn254.G1Affine // len = types.NumPublicSignals + 1
}

// DecodeVerifyingKey parses the wire-format verifying key into curve
// points.
func DecodeVerifyingKey(wire *types.VerifyingKey) (*VerifyingKey, error) {
	alpha, err := decodeG1(wire.Alpha)
	if err != nil {
		return nil, fmt.Errorf("groth16verify: alpha: %w", err)
	}
	beta, err := decodeG2(wire.Beta)
	if err != nil {
		return nil, fmt.Errorf("groth16verify: beta: %w", err)
	}
	gamma, err := decodeG2(wire.Gamma)
	if err != nil {
		return nil, fmt.Errorf("groth16verify: gamma: %w", err)
	}
	delta, err := decodeG2(wire.Delta)
	if err != nil {
		return nil, fmt.Errorf("groth16verify: delta: %w", err)
	}
	if len(wire.IC) != types.NumPublicSignals+1 {
		return nil, fmt.Errorf("groth16verify: expected %d IC entries, got %d", types.NumPublicSignals+1, len(wire.IC))
	}
	ic := make([]bn254.G1Affine, len(wire.IC))
	for i, raw := range wire.IC {
		p, err := decodeG1(raw)
		if err != nil {
			return nil, fmt.Errorf("groth16verify: IC[%d]: %w", i, err)
		}
		ic[i] = p
	}

	return &VerifyingKey{Alpha: alpha, Beta: beta, Gamma: gamma, Delta: delta, IC: ic}, nil
}

// decodeG1 parses a 64-byte wire point as two 32-byte big-endian
// field coordinates (X, Y).
func decodeG1(raw [64]byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	p.X.SetBytes(raw[0:32])
	p.Y.SetBytes(raw[32:64])
	if !p.IsOnCurve() {
		return p, fmt.Errorf("point not on curve")
	}
	return p, nil
}

// decodeG2 parses a 128-byte wire point whose Fp2 coordinates use the
// swapped (c1, c0) limb order documented in SPEC_FULL.md §13: the
// layout is (X.c1 ‖ X.c0 ‖ Y.c1 ‖ Y.c0).
func decodeG2(raw [128]byte) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	p.X.A1.SetBytes(raw[0:32])
	p.X.A0.SetBytes(raw[32:64])
	p.Y.A1.SetBytes(raw[64:96])
	p.Y.A0.SetBytes(raw[96:128])
	if !p.IsOnCurve() {
		return p, fmt.Errorf("point not on curve")
	}
	return p, nil
}

// decodeG1Proof parses proof.A / proof.C, which use natural (X, Y)
// ordering like the verifying key's G1 entries.
func decodeG1Proof(raw [64]byte) (bn254.G1Affine, error) {
	return decodeG1(raw)
}

// Verify checks a Groth16 proof against vk and the seven ordered
// public signals per §4.3: vk_x = IC[0] + Σ s_i·IC[i], then
// e(A, B) = e(α, β)·e(vk_x, γ)·e(C, δ), computed as a single
// multi-pairing product equal to 1 with the A side supplied already
// negated by the submitter (§6).
func Verify(vk *VerifyingKey, proof *types.Proof, signals types.PublicSignals) error {
	a, err := decodeG1Proof(proof.A)
	if err != nil {
		return fmt.Errorf("groth16verify: proof.A: %w", err)
	}
	b, err := decodeG2(proof.B)
	if err != nil {
		return fmt.Errorf("groth16verify: proof.B: %w", err)
	}
	c, err := decodeG1Proof(proof.C)
	if err != nil {
		return fmt.Errorf("groth16verify: proof.C: %w", err)
	}

	vkX, err := computeVKX(vk, signals)
	if err != nil {
		return fmt.Errorf("groth16verify: vk_x: %w", err)
	}

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{a, vk.Alpha, *vkX, c},
		[]bn254.G2Affine{b, vk.Beta, vk.Gamma, vk.Delta},
	)
	if err != nil {
		return fmt.Errorf("groth16verify: pairing: %w", err)
	}
	if !ok {
		return ErrInvalidProof
	}
	return nil
}

// computeVKX computes IC[0] + Σ s_i·IC[i] via a constant-time
// multiscalar multiplication over the signal-weighted IC entries,
// then adds the constant term IC[0].
func computeVKX(vk *VerifyingKey, signals types.PublicSignals) (*bn254.G1Affine, error) {
	scalars := make([]fr.Element, len(signals))
	for i, s := range signals {
		n := new(big.Int).SetBytes(s[:])
		scalars[i].SetBigInt(n)
	}

	var msm bn254.G1Affine
	if _, err := msm.MultiExp(vk.IC[1:], scalars, ecc.MultiExpConfig{}); err != nil {
		return nil, fmt.Errorf("multiexp: %w", err)
	}

	var vkX bn254.G1Jac
	vkX.FromAffine(&vk.IC[0])
	var msmJac bn254.G1Jac
	msmJac.FromAffine(&msm)
	vkX.AddAssign(&msmJac)

	var out bn254.G1Affine
	out.FromJacobian(&vkX)
	return &out, nil
}
