package storage

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/zalando/go-keyring"

	"lockbox/internal/domain"
)

// vaultAvailable probes the OS credential vault with a sentinel set/delete
// round trip. Any failure means the vault cannot be trusted as a substrate
// and detection falls back to the local store.
func vaultAvailable() bool {
	const service = "lockbox.platform-probe"
	if err := keyring.Set(service, "probe", "1"); err != nil {
		return false
	}
	return keyring.Delete(service, "probe") == nil
}

// vaultStore keeps the session keys in the OS credential vault and delegates
// salt and key check value to the local store: those two are not secret by
// themselves, and keeping them out of the vault lets HasExistingKey work
// without touching credential storage at all.
//
// Vault entries live under service <appID>, account "<prefix>.<instanceID>".
// Reads deliberately do not demand interactive user presence: presence checks
// fail transiently at process cold start before the biometric subsystem is
// ready, and the vault's own access control already gates the entries.
type vaultStore struct {
	id    domain.InstanceID
	local *localStore
	appID string
	index *Provider
}

func (s *vaultStore) account(prefix string) string {
	return prefix + "." + string(s.id)
}

func (s *vaultStore) getCred(prefix string) ([]byte, error) {
	v, err := keyring.Get(s.appID, s.account(prefix))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(v)
}

func (s *vaultStore) setCred(prefix string, raw []byte) error {
	if err := keyring.Set(s.appID, s.account(prefix), base64.StdEncoding.EncodeToString(raw)); err != nil {
		return err
	}
	// The vault cannot enumerate its entries; record the instance id so the
	// orphan sweep can find this session later.
	return s.index.trackVaultInstance(s.id)
}

func (s *vaultStore) delCred(prefix string) error {
	err := keyring.Delete(s.appID, s.account(prefix))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (s *vaultStore) Salt(ctx context.Context) ([]byte, error) {
	return s.local.Salt(ctx)
}

func (s *vaultStore) SetSalt(ctx context.Context, salt []byte) error {
	return s.local.SetSalt(ctx, salt)
}

func (s *vaultStore) KeyCheckValue(ctx context.Context) (string, error) {
	return s.local.KeyCheckValue(ctx)
}

func (s *vaultStore) SetKeyCheckValue(ctx context.Context, kcv string) error {
	return s.local.SetKeyCheckValue(ctx, kcv)
}

func (s *vaultStore) WrappingKey(ctx context.Context) ([]byte, error) {
	return s.getCred(domain.WrappingKeyPrefix)
}

func (s *vaultStore) SetWrappingKey(ctx context.Context, raw []byte) error {
	return s.setCred(domain.WrappingKeyPrefix, raw)
}

func (s *vaultStore) WrappedKey(ctx context.Context) ([]byte, error) {
	return s.getCred(domain.WrappedKeyPrefix)
}

func (s *vaultStore) SetWrappedKey(ctx context.Context, blob []byte) error {
	return s.setCred(domain.WrappedKeyPrefix, blob)
}

func (s *vaultStore) HasSessionKeys(ctx context.Context) (bool, error) {
	wk, err := s.getCred(domain.WrappingKeyPrefix)
	if err != nil {
		return false, err
	}
	wrapped, err := s.getCred(domain.WrappedKeyPrefix)
	if err != nil {
		return false, err
	}
	return wk != nil && wrapped != nil, nil
}

func (s *vaultStore) ClearSession(ctx context.Context) error {
	if err := s.delCred(domain.WrappingKeyPrefix); err != nil {
		return err
	}
	if err := s.delCred(domain.WrappedKeyPrefix); err != nil {
		return err
	}
	return s.index.untrackVaultInstance(s.id)
}

func (s *vaultStore) Clear(ctx context.Context) error {
	if err := s.ClearSession(ctx); err != nil {
		return err
	}
	return s.local.del(domain.SaltPrefix, domain.KCVPrefix)
}

var _ domain.StorageAdapter = (*vaultStore)(nil)
