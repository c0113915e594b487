package storage_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"

	"lockbox/internal/domain"
	"lockbox/internal/storage"
)

func newLocalProvider(t *testing.T) *storage.Provider {
	t.Helper()
	p := storage.NewProvider(storage.Config{
		Dir:      t.TempDir(),
		Platform: domain.PlatformLocal,
		Logger:   zerolog.Nop(),
	})
	t.Cleanup(func() { _ = p.Close() })
	if !p.Available() {
		t.Fatal("local store should be available in a temp dir")
	}
	return p
}

func TestLocal_AbsentFields(t *testing.T) {
	ctx := context.Background()
	a := newLocalProvider(t).Adapter("db-1")

	salt, err := a.Salt(ctx)
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	if salt != nil {
		t.Fatal("fresh instance should have no salt")
	}
	kcv, err := a.KeyCheckValue(ctx)
	if err != nil {
		t.Fatalf("kcv: %v", err)
	}
	if kcv != "" {
		t.Fatal("fresh instance should have no kcv")
	}
	has, err := a.HasSessionKeys(ctx)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if has {
		t.Fatal("fresh instance should have no session keys")
	}
}

func TestLocal_FieldRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := newLocalProvider(t).Adapter("db-1")

	if err := a.SetSalt(ctx, []byte("salty")); err != nil {
		t.Fatalf("set salt: %v", err)
	}
	if err := a.SetKeyCheckValue(ctx, "kcv-value"); err != nil {
		t.Fatalf("set kcv: %v", err)
	}
	salt, err := a.Salt(ctx)
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	if !bytes.Equal(salt, []byte("salty")) {
		t.Fatal("salt mismatch after round trip")
	}
	kcv, err := a.KeyCheckValue(ctx)
	if err != nil {
		t.Fatalf("kcv: %v", err)
	}
	if kcv != "kcv-value" {
		t.Fatalf("kcv = %q, want %q", kcv, "kcv-value")
	}
}

func TestLocal_InstanceIsolation(t *testing.T) {
	ctx := context.Background()
	p := newLocalProvider(t)
	a := p.Adapter("db-a")
	b := p.Adapter("db-b")

	if err := a.SetSalt(ctx, []byte("salt-a")); err != nil {
		t.Fatalf("set salt: %v", err)
	}
	salt, err := b.Salt(ctx)
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	if salt != nil {
		t.Fatal("instance b must not see instance a's salt")
	}

	if err := b.SetSalt(ctx, []byte("salt-b")); err != nil {
		t.Fatalf("set salt: %v", err)
	}
	if err := a.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	salt, err = b.Salt(ctx)
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	if !bytes.Equal(salt, []byte("salt-b")) {
		t.Fatal("clearing instance a must not touch instance b")
	}
}

func TestLocal_ClearSessionKeepsSaltAndKCV(t *testing.T) {
	ctx := context.Background()
	a := newLocalProvider(t).Adapter("db-1")

	if err := a.SetSalt(ctx, []byte("s")); err != nil {
		t.Fatalf("set salt: %v", err)
	}
	if err := a.SetKeyCheckValue(ctx, "k"); err != nil {
		t.Fatalf("set kcv: %v", err)
	}
	if err := a.SetWrappingKey(ctx, []byte("wk")); err != nil {
		t.Fatalf("set wrapping key: %v", err)
	}
	if err := a.SetWrappedKey(ctx, []byte("wrapped")); err != nil {
		t.Fatalf("set wrapped key: %v", err)
	}

	has, err := a.HasSessionKeys(ctx)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !has {
		t.Fatal("session keys should be present")
	}

	if err := a.ClearSession(ctx); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	has, err = a.HasSessionKeys(ctx)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if has {
		t.Fatal("session keys should be gone")
	}
	salt, err := a.Salt(ctx)
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	if salt == nil {
		t.Fatal("clearSession must keep the salt")
	}
}

func TestLocal_HasSessionKeysNeedsBoth(t *testing.T) {
	ctx := context.Background()
	a := newLocalProvider(t).Adapter("db-1")

	if err := a.SetWrappingKey(ctx, []byte("wk")); err != nil {
		t.Fatalf("set wrapping key: %v", err)
	}
	has, err := a.HasSessionKeys(ctx)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if has {
		t.Fatal("one of two session fields is not a session")
	}
}
