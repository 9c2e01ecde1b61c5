// Package extdata implements the canonical serialization and hash
// binding of a transact call's external (non-SNARK-private) data to
// its proof.
package extdata

import (
	"crypto/sha256"
	"math/big"

	"github.com/shieldpool/core/internal/field"
	"github.com/shieldpool/core/pkg/common"
	"github.com/shieldpool/core/pkg/types"
)

// Serialize produces the canonical byte string of an ExtData:
// 32 bytes recipient ‖ LE i64 ext_amount ‖ u32 LE length + bytes of
// encrypted_output_1 ‖ u32 LE length + bytes of encrypted_output_2 ‖
// LE u64 fee ‖ 32 bytes mint_address.
func Serialize(data *types.ExtData) []byte {
	return common.ConcatBytes(
		data.Recipient.Bytes(),
		common.Int64ToBytesLE(data.ExtAmount),
		common.Uint32ToBytesLE(uint32(len(data.EncryptedOutput1))),
		data.EncryptedOutput1,
		common.Uint32ToBytesLE(uint32(len(data.EncryptedOutput2))),
		data.EncryptedOutput2,
		common.Uint64ToBytesLE(data.Fee),
		data.MintAddress.Bytes(),
	)
}

// Hash returns SHA-256 of the canonical serialization, reduced modulo
// r so it can be compared directly against public_signal[2].
func Hash(data *types.ExtData) types.Hash {
	digest := sha256.Sum256(Serialize(data))
	n := new(big.Int).SetBytes(digest[:])
	return field.Reduce(n)
}
