package keymanager

import (
	"context"
	"errors"

	"github.com/awnumar/memguard"
	"github.com/rs/zerolog"

	"lockbox/internal/crypto"
	"lockbox/internal/domain"
)

var (
	// ErrNoKey is returned by UnlockWithPassword when no salt was ever set
	// for the instance; the caller should run SetupNewKey instead.
	ErrNoKey = errors.New("no existing key for instance, use setup")
)

// AdapterProvider hands out the platform-appropriate storage adapter for an
// instance. Satisfied by storage.Provider.
type AdapterProvider interface {
	Adapter(id domain.InstanceID) domain.StorageAdapter
}

// Manager drives the key lifecycle for a single instance. It is not safe for
// concurrent lifecycle calls on the same instance; managers for different
// instances are independent.
type Manager struct {
	id       domain.InstanceID
	provider AdapterProvider
	params   crypto.Params
	log      zerolog.Logger

	adapter domain.StorageAdapter
	current *memguard.LockedBuffer
}

// New returns an uninitialized Manager; storage is bound lazily on first use.
func New(id domain.InstanceID, provider AdapterProvider, params crypto.Params, log zerolog.Logger) *Manager {
	return &Manager{
		id:       id,
		provider: provider,
		params:   params,
		log:      log.With().Str("instance", string(id)).Logger(),
	}
}

// InstanceID returns the instance this manager serves.
func (m *Manager) InstanceID() domain.InstanceID { return m.id }

// Initialize binds the storage adapter. Idempotent; every other operation
// calls it lazily, so explicit calls are only useful for warm-up.
func (m *Manager) Initialize() {
	if m.adapter == nil {
		m.adapter = m.provider.Adapter(m.id)
	}
}

func (m *Manager) storage() domain.StorageAdapter {
	m.Initialize()
	return m.adapter
}

// HasExistingKey reports whether a key was ever set up, i.e. a salt exists.
func (m *Manager) HasExistingKey(ctx context.Context) (bool, error) {
	salt, err := m.storage().Salt(ctx)
	if err != nil {
		return false, err
	}
	return salt != nil, nil
}

// SetupNewKey derives a key from password under a fresh salt, persists the
// salt and key check value as a pair, holds the key, and returns it. Calling
// it on an instance that already has a key re-keys it; re-encrypting content
// protected by the old key is the caller's responsibility.
//
// Storage write failures propagate: a half-written setup must not look like
// a wrong password later.
func (m *Manager) SetupNewKey(ctx context.Context, password string) ([]byte, error) {
	adapter := m.storage()

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	key := crypto.DeriveKey(password, salt, m.params)
	kcv, err := crypto.KeyCheckValue(key)
	if err != nil {
		crypto.Wipe(key)
		return nil, err
	}
	if err := adapter.SetSalt(ctx, salt); err != nil {
		crypto.Wipe(key)
		return nil, err
	}
	if err := adapter.SetKeyCheckValue(ctx, kcv); err != nil {
		crypto.Wipe(key)
		return nil, err
	}
	m.setCurrent(key)
	return key, nil
}

// UnlockWithPassword verifies password against the stored key check value.
// A match holds and returns the key; a mismatch wipes the candidate and
// returns (nil, nil) — wrong passwords are a normal outcome, not a fault.
// Unlocking an instance that was never set up returns ErrNoKey.
func (m *Manager) UnlockWithPassword(ctx context.Context, password string) ([]byte, error) {
	adapter := m.storage()

	salt, err := adapter.Salt(ctx)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		return nil, ErrNoKey
	}
	stored, err := adapter.KeyCheckValue(ctx)
	if err != nil {
		return nil, err
	}

	candidate := crypto.DeriveKey(password, salt, m.params)
	kcv, err := crypto.KeyCheckValue(candidate)
	if err != nil {
		crypto.Wipe(candidate)
		return nil, err
	}
	if kcv != stored {
		crypto.Wipe(candidate)
		return nil, nil
	}
	m.setCurrent(candidate)
	return candidate, nil
}

// ChangePassword re-keys the instance: it unlocks with oldPassword, then runs
// a fresh setup under newPassword. When oldPassword is wrong it returns
// (nil, nil, nil) without touching storage. On success both keys come back,
// because migrating content from the old key to the new one is the caller's
// job.
func (m *Manager) ChangePassword(ctx context.Context, oldPassword, newPassword string) (oldKey, newKey []byte, err error) {
	oldKey, err = m.UnlockWithPassword(ctx, oldPassword)
	if err != nil {
		return nil, nil, err
	}
	if oldKey == nil {
		return nil, nil, nil
	}
	newKey, err = m.SetupNewKey(ctx, newPassword)
	if err != nil {
		return nil, nil, err
	}
	return oldKey, newKey, nil
}

// CurrentKey returns the live key, or nil when locked. The returned slice
// aliases the locked buffer and dies with it on ClearKey.
func (m *Manager) CurrentKey() []byte {
	if m.current == nil {
		return nil
	}
	return m.current.Bytes()
}

// ClearKey zeroes and drops the live key, moving the manager back to locked.
func (m *Manager) ClearKey() {
	if m.current != nil {
		m.current.Destroy()
		m.current = nil
	}
}

// Reset clears the live key and wipes all four persisted fields, returning
// the instance to its never-set-up state.
func (m *Manager) Reset(ctx context.Context) error {
	m.ClearKey()
	return m.storage().Clear(ctx)
}

// setCurrent replaces the live key. The locked buffer keeps its own copy so
// key stays valid for the caller.
func (m *Manager) setCurrent(key []byte) {
	m.ClearKey()
	m.current = memguard.NewBufferFromBytes(append([]byte(nil), key...))
}
