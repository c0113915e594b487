// Package crypto exposes the minimal primitives used by Lockbox.
//
// Contents
//
//   - Password key derivation with a salted, slow KDF (DeriveKey, NewSalt)
//   - Key check values for verifying a password without storing it
//     (KeyCheckValue)
//   - Wrapping a derived key under a fresh key-encrypting key for session
//     persistence (NewWrappingKey, WrapKey, UnwrapKey)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// KeyCheckValue seals one fixed, public constant under an all-zero nonce.
// That is sound only because the plaintext never varies and is sealed once
// per derived key; the zero-nonce pattern must not be used anywhere else.
// Callers should treat every returned key as sensitive and rely on Wipe when
// practical to reduce lifetime in memory.
package crypto
