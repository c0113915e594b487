package keymanager_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"lockbox/internal/domain"
	"lockbox/internal/keymanager"
)

func TestPersistAndRestoreSession(t *testing.T) {
	ctx := context.Background()
	m, p := newManager(t, "db-1")

	key, err := m.SetupNewKey(ctx, "pw")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	keyCopy := append([]byte(nil), key...)

	if !m.PersistSession(ctx) {
		t.Fatal("persist session should succeed with a live key")
	}
	if !m.HasPersistedSession(ctx) {
		t.Fatal("session probe should see the persisted session")
	}

	// A fresh manager restores without the password.
	m2 := keymanager.New("db-1", p, testParams, zerolog.Nop())
	got := m2.RestoreSession(ctx)
	if got == nil {
		t.Fatal("restore should recover the session")
	}
	if !bytes.Equal(got, keyCopy) {
		t.Fatal("restored key must equal the persisted key")
	}
	if m2.CurrentKey() == nil {
		t.Fatal("restore must leave the manager unlocked")
	}
}

func TestPersistSession_NoLiveKey(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, "db-1")

	if m.PersistSession(ctx) {
		t.Fatal("persist must fail without a live key")
	}
}

func TestRestoreSession_NothingPersisted(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, "db-1")

	if _, err := m.SetupNewKey(ctx, "pw"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	m.ClearKey()

	if m.RestoreSession(ctx) != nil {
		t.Fatal("restore with no persisted session must return nil")
	}
}

func TestRestoreSession_CorruptedClearsSession(t *testing.T) {
	ctx := context.Background()
	m, p := newManager(t, "db-1")

	if _, err := m.SetupNewKey(ctx, "pw"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !m.PersistSession(ctx) {
		t.Fatal("persist session should succeed")
	}

	// Corrupt the wrapped blob behind the manager's back.
	adapter := p.Adapter("db-1")
	if err := adapter.SetWrappedKey(ctx, []byte("garbage")); err != nil {
		t.Fatalf("set wrapped key: %v", err)
	}

	m.ClearKey()
	if m.RestoreSession(ctx) != nil {
		t.Fatal("corrupted session must not restore")
	}
	if m.HasPersistedSession(ctx) {
		t.Fatal("failed restore must clear the stale session")
	}
}

// flakyAdapter is an in-memory adapter that refuses to store the wrapped
// key, for exercising half-written session handling.
type flakyAdapter struct {
	salt, wrappingKey []byte
	kcv               string
	sessionCleared    bool
}

func (a *flakyAdapter) Salt(ctx context.Context) ([]byte, error)          { return a.salt, nil }
func (a *flakyAdapter) SetSalt(ctx context.Context, salt []byte) error    { a.salt = salt; return nil }
func (a *flakyAdapter) KeyCheckValue(ctx context.Context) (string, error) { return a.kcv, nil }
func (a *flakyAdapter) SetKeyCheckValue(ctx context.Context, kcv string) error {
	a.kcv = kcv
	return nil
}
func (a *flakyAdapter) WrappingKey(ctx context.Context) ([]byte, error) { return a.wrappingKey, nil }
func (a *flakyAdapter) SetWrappingKey(ctx context.Context, raw []byte) error {
	a.wrappingKey = raw
	return nil
}
func (a *flakyAdapter) WrappedKey(ctx context.Context) ([]byte, error) { return nil, nil }
func (a *flakyAdapter) SetWrappedKey(ctx context.Context, blob []byte) error {
	return errors.New("write refused")
}
func (a *flakyAdapter) HasSessionKeys(ctx context.Context) (bool, error) { return false, nil }
func (a *flakyAdapter) ClearSession(ctx context.Context) error {
	a.wrappingKey = nil
	a.sessionCleared = true
	return nil
}
func (a *flakyAdapter) Clear(ctx context.Context) error {
	a.salt, a.kcv = nil, ""
	return a.ClearSession(ctx)
}

type flakyProvider struct{ adapter *flakyAdapter }

func (p *flakyProvider) Adapter(id domain.InstanceID) domain.StorageAdapter { return p.adapter }

func TestPersistSession_PartialWriteIsCleared(t *testing.T) {
	ctx := context.Background()
	adapter := &flakyAdapter{}
	m := keymanager.New("db-1", &flakyProvider{adapter: adapter}, testParams, zerolog.Nop())

	if _, err := m.SetupNewKey(ctx, "pw"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if m.PersistSession(ctx) {
		t.Fatal("persist must fail when the wrapped key cannot be stored")
	}
	if !adapter.sessionCleared {
		t.Fatal("a failed persist must clear the half-written session")
	}
	if adapter.wrappingKey != nil {
		t.Fatal("no lone wrapping key may remain after a failed persist")
	}
}

func TestClearPersistedSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, "db-1")

	if _, err := m.SetupNewKey(ctx, "pw"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !m.PersistSession(ctx) {
		t.Fatal("persist session should succeed")
	}
	if err := m.ClearPersistedSession(ctx); err != nil {
		t.Fatalf("clear persisted session: %v", err)
	}
	if m.HasPersistedSession(ctx) {
		t.Fatal("cleared session should be gone")
	}
	if m.CurrentKey() == nil {
		t.Fatal("clearing the stored session must not lock the manager")
	}
}

func TestSession_DoesNotCrossInstances(t *testing.T) {
	ctx := context.Background()
	m, p := newManager(t, "db-a")

	if _, err := m.SetupNewKey(ctx, "pw"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !m.PersistSession(ctx) {
		t.Fatal("persist session should succeed")
	}

	other := keymanager.New("db-b", p, testParams, zerolog.Nop())
	if other.HasPersistedSession(ctx) {
		t.Fatal("instance b must not see instance a's session")
	}
	if other.RestoreSession(ctx) != nil {
		t.Fatal("instance b must not restore instance a's key")
	}
}
