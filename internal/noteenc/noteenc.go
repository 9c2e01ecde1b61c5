// Package noteenc implements the symmetric encryption a sender uses to
// wrap a note's plaintext fields (amount, blinding, asset) into the
// encrypted_output blob carried alongside a commitment, so only the
// recipient holding the shared key can recover the note the indexer
// gossips (internal/indexer). The host never decrypts these blobs; it
// only stores and forwards them opaquely.
package noteenc

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the shared symmetric key size chacha20poly1305 requires.
const KeySize = chacha20poly1305.KeySize

// ErrCiphertextTooShort is returned by Open when the blob is smaller
// than one nonce.
var ErrCiphertextTooShort = errors.New("noteenc: ciphertext shorter than nonce")

// Seal encrypts plaintext under key, returning nonce‖ciphertext‖tag.
func Seal(key [KeySize]byte, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("noteenc: new cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("noteenc: nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal under the same key.
func Open(key [KeySize]byte, blob []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("noteenc: new cipher: %w", err)
	}

	if len(blob) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("noteenc: open: %w", err)
	}
	return plaintext, nil
}
