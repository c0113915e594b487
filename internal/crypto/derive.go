package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	KeyBytes  = 32
	SaltBytes = 32
)

// Params holds the key-derivation tunables. They are fixed for the life of a
// stored salt: changing them invalidates every existing key check value.
type Params struct {
	Iterations int
}

// DefaultParams returns the production derivation cost.
func DefaultParams() Params { return Params{Iterations: 600_000} }

// NewSalt returns a fresh random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey stretches password into a symmetric key. Deterministic for the
// same (password, salt) pair; any change to either input yields an unrelated
// key.
func DeriveKey(password string, salt []byte, p Params) []byte {
	return pbkdf2.Key([]byte(password), salt, p.Iterations, KeyBytes, sha256.New)
}
