package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// Returned when a wrapped blob is too short to contain a nonce.
	errWrappedTooShort = errors.New("wrapped key blob truncated")
)

// NewWrappingKey returns a fresh random key-encrypting key.
func NewWrappingKey() ([]byte, error) {
	wk := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(wk); err != nil {
		return nil, err
	}
	return wk, nil
}

// WrapKey seals key under wrappingKey with a random nonce and returns
// nonce||ciphertext.
func WrapKey(key, wrappingKey []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(wrappingKey)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, key, nil), nil
}

// UnwrapKey opens a blob produced by WrapKey. Fails for any blob sealed under
// a different wrapping key or modified in transit.
func UnwrapKey(blob, wrappingKey []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(wrappingKey)
	if err != nil {
		return nil, err
	}
	if len(blob) < aead.NonceSize() {
		return nil, errWrappedTooShort
	}
	nonce, ct := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	return aead.Open(nil, nonce, ct, nil)
}
