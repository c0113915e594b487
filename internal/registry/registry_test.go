package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"lockbox/internal/crypto"
	"lockbox/internal/domain"
	"lockbox/internal/registry"
	"lockbox/internal/storage"
)

var testParams = crypto.Params{Iterations: 1000}

func newRegistry(t *testing.T, platform domain.Platform) (*registry.Registry, *storage.Provider) {
	t.Helper()
	p := storage.NewProvider(storage.Config{
		Dir:      t.TempDir(),
		Platform: platform,
		AppID:    "com.tearleads.rapid.test",
		Logger:   zerolog.Nop(),
	})
	t.Cleanup(func() { _ = p.Close() })
	return registry.New(p, testParams, zerolog.Nop()), p
}

func TestManager_CreatedOnceAndReused(t *testing.T) {
	r, _ := newRegistry(t, domain.PlatformLocal)

	m1 := r.Manager("db-1")
	m2 := r.Manager("db-1")
	if m1 != m2 {
		t.Fatal("same instance id must map to the same manager")
	}
	if r.Manager("db-2") == m1 {
		t.Fatal("different instance ids must map to different managers")
	}
}

func TestCurrent_RequiresSelection(t *testing.T) {
	r, _ := newRegistry(t, domain.PlatformLocal)

	if _, err := r.Current(); !errors.Is(err, registry.ErrNoCurrentInstance) {
		t.Fatalf("err = %v, want ErrNoCurrentInstance", err)
	}

	r.SetCurrent("db-1")
	m, err := r.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if m.InstanceID() != "db-1" {
		t.Fatalf("current instance = %s, want db-1", m.InstanceID())
	}

	r.ClearCurrent()
	if _, err := r.Current(); !errors.Is(err, registry.ErrNoCurrentInstance) {
		t.Fatalf("err after clear = %v, want ErrNoCurrentInstance", err)
	}
}

func TestClearManager_ZeroesKeyAndEvicts(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t, domain.PlatformLocal)
	r.SetCurrent("db-1")

	m := r.Manager("db-1")
	if _, err := m.SetupNewKey(ctx, "pw"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	r.ClearManager("db-1")
	if m.CurrentKey() != nil {
		t.Fatal("eviction must zero the live key")
	}
	if _, err := r.Current(); !errors.Is(err, registry.ErrNoCurrentInstance) {
		t.Fatal("evicting the current instance must clear the pointer")
	}
	if r.Manager("db-1") == m {
		t.Fatal("a fresh manager must replace the evicted one")
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t, domain.PlatformLocal)
	r.SetCurrent("db-1")

	m1 := r.Manager("db-1")
	m2 := r.Manager("db-2")
	if _, err := m1.SetupNewKey(ctx, "pw"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	r.ClearAll()
	if m1.CurrentKey() != nil {
		t.Fatal("clear all must zero live keys")
	}
	if _, err := r.Current(); !errors.Is(err, registry.ErrNoCurrentInstance) {
		t.Fatal("clear all must unset the current pointer")
	}
	if r.Manager("db-2") == m2 {
		t.Fatal("clear all must evict every manager")
	}
}
