package storage

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"lockbox/internal/domain"
)

const (
	fieldsBucket = "fields"
	indexBucket  = "vault_index"
)

// localStore keeps all four per-instance fields in the shared bbolt file.
// Missing keys read back as absent, not as errors.
type localStore struct {
	id       domain.InstanceID
	provider *Provider
}

func (s *localStore) get(prefix string) ([]byte, error) {
	if s.provider.db == nil {
		return nil, ErrStoreUnavailable
	}
	var out []byte
	err := s.provider.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(fieldsBucket))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(domain.FieldKey(prefix, s.id))); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *localStore) put(prefix string, v []byte) error {
	if s.provider.db == nil {
		return ErrStoreUnavailable
	}
	return s.provider.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(fieldsBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(domain.FieldKey(prefix, s.id)), v)
	})
}

func (s *localStore) del(prefixes ...string) error {
	if s.provider.db == nil {
		return ErrStoreUnavailable
	}
	return s.provider.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(fieldsBucket))
		if b == nil {
			return nil
		}
		for _, prefix := range prefixes {
			if err := b.Delete([]byte(domain.FieldKey(prefix, s.id))); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *localStore) Salt(ctx context.Context) ([]byte, error) {
	return s.get(domain.SaltPrefix)
}

func (s *localStore) SetSalt(ctx context.Context, salt []byte) error {
	return s.put(domain.SaltPrefix, salt)
}

func (s *localStore) KeyCheckValue(ctx context.Context) (string, error) {
	v, err := s.get(domain.KCVPrefix)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *localStore) SetKeyCheckValue(ctx context.Context, kcv string) error {
	return s.put(domain.KCVPrefix, []byte(kcv))
}

func (s *localStore) WrappingKey(ctx context.Context) ([]byte, error) {
	return s.get(domain.WrappingKeyPrefix)
}

func (s *localStore) SetWrappingKey(ctx context.Context, raw []byte) error {
	return s.put(domain.WrappingKeyPrefix, raw)
}

func (s *localStore) WrappedKey(ctx context.Context) ([]byte, error) {
	return s.get(domain.WrappedKeyPrefix)
}

func (s *localStore) SetWrappedKey(ctx context.Context, blob []byte) error {
	return s.put(domain.WrappedKeyPrefix, blob)
}

func (s *localStore) HasSessionKeys(ctx context.Context) (bool, error) {
	wk, err := s.get(domain.WrappingKeyPrefix)
	if err != nil {
		return false, err
	}
	wrapped, err := s.get(domain.WrappedKeyPrefix)
	if err != nil {
		return false, err
	}
	return wk != nil && wrapped != nil, nil
}

func (s *localStore) ClearSession(ctx context.Context) error {
	return s.del(domain.WrappingKeyPrefix, domain.WrappedKeyPrefix)
}

func (s *localStore) Clear(ctx context.Context) error {
	return s.del(domain.SaltPrefix, domain.KCVPrefix, domain.WrappingKeyPrefix, domain.WrappedKeyPrefix)
}

var _ domain.StorageAdapter = (*localStore)(nil)
