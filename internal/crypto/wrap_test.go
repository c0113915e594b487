package crypto_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"lockbox/internal/crypto"
)

func TestWrapKey_RoundTrip(t *testing.T) {
	key := make([]byte, crypto.KeyBytes)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand: %v", err)
	}
	wk, err := crypto.NewWrappingKey()
	if err != nil {
		t.Fatalf("new wrapping key: %v", err)
	}

	blob, err := crypto.WrapKey(key, wk)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	got, err := crypto.UnwrapKey(blob, wk)
	if err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Fatal("unwrap(wrap(key)) != key")
	}
}

func TestUnwrapKey_WrongWrappingKeyFails(t *testing.T) {
	key := make([]byte, crypto.KeyBytes)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand: %v", err)
	}
	wk1, err := crypto.NewWrappingKey()
	if err != nil {
		t.Fatalf("new wrapping key: %v", err)
	}
	wk2, err := crypto.NewWrappingKey()
	if err != nil {
		t.Fatalf("new wrapping key: %v", err)
	}

	blob, err := crypto.WrapKey(key, wk1)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if _, err := crypto.UnwrapKey(blob, wk2); err == nil {
		t.Fatal("unwrap under a different wrapping key must fail")
	}
}

func TestUnwrapKey_TruncatedBlobFails(t *testing.T) {
	wk, err := crypto.NewWrappingKey()
	if err != nil {
		t.Fatalf("new wrapping key: %v", err)
	}
	if _, err := crypto.UnwrapKey([]byte{1, 2, 3}, wk); err == nil {
		t.Fatal("truncated blob must fail")
	}
}
