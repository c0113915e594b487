package crypto

import (
	"golang.org/x/crypto/chacha20poly1305"
)

// kcvTag is the fixed, public plaintext sealed to produce a key check value.
var kcvTag = []byte("lockbox-kcv-v1")

// kcvPrefixBytes is how much of the ciphertext survives truncation. Enough to
// make an accidental collision implausible; useless for recovering the key.
const kcvPrefixBytes = 16

// KeyCheckValue seals the fixed tag under key and returns a short encoding of
// the ciphertext prefix. The nonce is all zeros, which is safe only because
// the message is a single fixed constant sealed once per key; do not reuse
// this pattern for variable plaintexts.
func KeyCheckValue(key []byte) (string, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	ct := aead.Seal(nil, nonce[:], kcvTag, nil)
	return B64(ct[:kcvPrefixBytes]), nil
}
