package keymanager

import (
	"context"

	"lockbox/internal/crypto"
)

// PersistSession wraps the live key under a fresh wrapping key and stores
// both, so the next process start can restore without a password. Returns
// false when there is no live key or any storage write fails: losing a
// session only costs the user one password prompt, so nothing here throws.
func (m *Manager) PersistSession(ctx context.Context) bool {
	key := m.CurrentKey()
	if key == nil {
		m.log.Debug().Msg("persist session: no live key")
		return false
	}
	adapter := m.storage()

	wk, err := crypto.NewWrappingKey()
	if err != nil {
		m.log.Warn().Err(err).Msg("persist session: wrapping key generation failed")
		return false
	}
	defer crypto.Wipe(wk)

	wrapped, err := crypto.WrapKey(key, wk)
	if err != nil {
		m.log.Warn().Err(err).Msg("persist session: wrap failed")
		return false
	}
	if err := adapter.SetWrappingKey(ctx, wk); err != nil {
		m.log.Warn().Err(err).Msg("persist session: store wrapping key failed")
		return false
	}
	if err := adapter.SetWrappedKey(ctx, wrapped); err != nil {
		m.log.Warn().Err(err).Msg("persist session: store wrapped key failed")
		// A wrapping key without its wrapped key is not a session; take it
		// back out rather than leaving the pair half-written.
		if cerr := adapter.ClearSession(ctx); cerr != nil {
			m.log.Warn().Err(cerr).Msg("persist session: clearing partial session failed")
		}
		return false
	}
	return true
}

// HasPersistedSession is a cheap existence probe; it never prompts the user
// and never decrypts anything.
func (m *Manager) HasPersistedSession(ctx context.Context) bool {
	ok, err := m.storage().HasSessionKeys(ctx)
	if err != nil {
		m.log.Debug().Err(err).Msg("session probe failed")
		return false
	}
	return ok
}

// RestoreSession unwraps the persisted session back into the live key and
// returns it. Any failure — missing fields, corrupted data, a wrapping key
// from some other write — clears the stored session and returns nil, so
// stale unusable session state never survives.
func (m *Manager) RestoreSession(ctx context.Context) []byte {
	adapter := m.storage()

	wk, err := adapter.WrappingKey(ctx)
	if err != nil || wk == nil {
		return m.dropSession(ctx, err)
	}
	defer crypto.Wipe(wk)

	wrapped, err := adapter.WrappedKey(ctx)
	if err != nil || wrapped == nil {
		return m.dropSession(ctx, err)
	}
	key, err := crypto.UnwrapKey(wrapped, wk)
	if err != nil {
		return m.dropSession(ctx, err)
	}
	m.setCurrent(key)
	return key
}

// ClearPersistedSession removes the stored wrapping and wrapped key.
func (m *Manager) ClearPersistedSession(ctx context.Context) error {
	return m.storage().ClearSession(ctx)
}

func (m *Manager) dropSession(ctx context.Context, cause error) []byte {
	if cause != nil {
		m.log.Warn().Err(cause).Msg("restore session failed, clearing stored session")
	}
	if err := m.ClearPersistedSession(ctx); err != nil {
		m.log.Warn().Err(err).Msg("clearing stored session failed")
	}
	return nil
}
