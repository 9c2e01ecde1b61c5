package groth16verify

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/shieldpool/core/pkg/types"
)

func marshalG1(p *bn254.G1Affine) [64]byte {
	var raw [64]byte
	x := p.X.Bytes()
	y := p.Y.Bytes()
	copy(raw[0:32], x[:])
	copy(raw[32:64], y[:])
	return raw
}

// marshalG2 packs p using this protocol's swapped (c1, c0) wire
// convention, matching decodeG2.
func marshalG2(p *bn254.G2Affine) [128]byte {
	var raw [128]byte
	xa1 := p.X.A1.Bytes()
	xa0 := p.X.A0.Bytes()
	ya1 := p.Y.A1.Bytes()
	ya0 := p.Y.A0.Bytes()
	copy(raw[0:32], xa1[:])
	copy(raw[32:64], xa0[:])
	copy(raw[64:96], ya1[:])
	copy(raw[96:128], ya0[:])
	return raw
}

func TestDecodeG1RoundTrip(t *testing.T) {
	_, _, g1Gen, _ := bn254.Generators()
	var p bn254.G1Affine
	p.ScalarMultiplication(&g1Gen, big.NewInt(7))

	raw := marshalG1(&p)
	decoded, err := decodeG1(raw)
	if err != nil {
		t.Fatalf("decodeG1 failed: %v", err)
	}
	if !decoded.Equal(&p) {
		t.Fatal("decodeG1 round trip produced a different point")
	}
}

func TestDecodeG1RejectsOffCurvePoint(t *testing.T) {
	var raw [64]byte
	raw[31] = 0x01 // X = 1
	raw[63] = 0x03 // Y = 3: 3^2 = 9 differs from 1^3 + 3 = 4, so not on the curve
	if _, err := decodeG1(raw); err == nil {
		t.Fatal("expected an error decoding an off-curve point")
	}
}

func TestDecodeG2RoundTrip(t *testing.T) {
	_, _, _, g2Gen := bn254.Generators()
	var p bn254.G2Affine
	p.ScalarMultiplication(&g2Gen, big.NewInt(11))

	raw := marshalG2(&p)
	decoded, err := decodeG2(raw)
	if err != nil {
		t.Fatalf("decodeG2 failed: %v", err)
	}
	if !decoded.Equal(&p) {
		t.Fatal("decodeG2 round trip produced a different point")
	}
}

func TestDecodeVerifyingKeyRejectsWrongICLength(t *testing.T) {
	_, _, g1Gen, g2Gen := bn254.Generators()
	wire := &types.VerifyingKey{
		Alpha: marshalG1(&g1Gen),
		Beta:  marshalG2(&g2Gen),
		Gamma: marshalG2(&g2Gen),
		Delta: marshalG2(&g2Gen),
		IC:    [][64]byte{marshalG1(&g1Gen)}, // too short: want NumPublicSignals+1
	}
	if _, err := DecodeVerifyingKey(wire); err == nil {
		t.Fatal("expected an error for a malformed IC length")
	}
}

func TestDecodeVerifyingKeyRoundTrip(t *testing.T) {
	_, _, g1Gen, g2Gen := bn254.Generators()
	ic := make([][64]byte, types.NumPublicSignals+1)
	for i := range ic {
		var p bn254.G1Affine
		p.ScalarMultiplication(&g1Gen, big.NewInt(int64(i+1)))
		ic[i] = marshalG1(&p)
	}
	wire := &types.VerifyingKey{
		Alpha: marshalG1(&g1Gen),
		Beta:  marshalG2(&g2Gen),
		Gamma: marshalG2(&g2Gen),
		Delta: marshalG2(&g2Gen),
		IC:    ic,
	}

	vk, err := DecodeVerifyingKey(wire)
	if err != nil {
		t.Fatalf("DecodeVerifyingKey failed: %v", err)
	}
	if len(vk.IC) != types.NumPublicSignals+1 {
		t.Fatalf("decoded IC length = %d, want %d", len(vk.IC), types.NumPublicSignals+1)
	}
	if !vk.Alpha.Equal(&g1Gen) {
		t.Fatal("decoded alpha should match the encoded generator")
	}
}

func TestVerifyRejectsMismatchedProof(t *testing.T) {
	_, _, g1Gen, g2Gen := bn254.Generators()
	ic := make([]bn254.G1Affine, types.NumPublicSignals+1)
	for i := range ic {
		ic[i].ScalarMultiplication(&g1Gen, big.NewInt(int64(i+1)))
	}
	vk := &VerifyingKey{
		Alpha: g1Gen,
		Beta:  g2Gen,
		Gamma: g2Gen,
		Delta: g2Gen,
		IC:    ic,
	}

	var a, c bn254.G1Affine
	a.ScalarMultiplication(&g1Gen, big.NewInt(3))
	c.ScalarMultiplication(&g1Gen, big.NewInt(5))
	var b bn254.G2Affine
	b.ScalarMultiplication(&g2Gen, big.NewInt(9))

	proof := &types.Proof{A: marshalG1(&a), B: marshalG2(&b), C: marshalG1(&c)}
	var signals types.PublicSignals
	for i := range signals {
		signals[i] = types.Hash{byte(i + 1)}
	}

	err := Verify(vk, proof, signals)
	if err == nil {
		t.Fatal("expected unrelated random points to fail the pairing check")
	}
}
