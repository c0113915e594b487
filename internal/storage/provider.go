package storage

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"lockbox/internal/domain"
)

const dbFile = "keystore.db"

var (
	// Returned by adapter operations when the durable local store could not
	// be opened (for example a non-persistent execution environment).
	ErrStoreUnavailable = errors.New("durable key store unavailable")
)

// Config holds the substrate wiring for a Provider.
type Config struct {
	Dir         string          // directory for the local key-value file
	Platform    domain.Platform // empty means DetectPlatform decides
	AgentSocket string          // host agent socket or named pipe path
	AppID       string          // credential vault service identifier
	Logger      zerolog.Logger
}

// DetectPlatform picks the storage substrate when none is configured
// explicitly: the host agent when a socket is wired up, the OS credential
// vault when the keyring answers a probe, and the local store otherwise.
// Explicit configuration always wins over detection.
func DetectPlatform(agentSocket string) domain.Platform {
	if agentSocket != "" {
		return domain.PlatformHost
	}
	if vaultAvailable() {
		return domain.PlatformVault
	}
	return domain.PlatformLocal
}

// Provider owns the shared storage substrates and hands out per-instance
// adapters. A nil bbolt handle means the durable store is unavailable; local
// operations then fail with ErrStoreUnavailable and the orphan sweep no-ops.
type Provider struct {
	platform domain.Platform
	db       *bolt.DB
	host     *HostClient
	appID    string
	log      zerolog.Logger
}

// NewProvider opens the substrates for cfg. A local store that fails to open
// is logged and left unavailable rather than failing construction, so host
// and vault sessions keep working on storage-less environments.
func NewProvider(cfg Config) *Provider {
	platform := cfg.Platform
	if platform == "" {
		platform = DetectPlatform(cfg.AgentSocket)
	}

	p := &Provider{
		platform: platform,
		appID:    cfg.AppID,
		log:      cfg.Logger,
	}

	if cfg.Dir != "" {
		db, err := bolt.Open(filepath.Join(cfg.Dir, dbFile), 0o600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			p.log.Warn().Err(err).Msg("local key store unavailable")
		} else {
			p.db = db
		}
	}
	if platform == domain.PlatformHost {
		p.host = NewHostClient(cfg.AgentSocket)
	}
	return p
}

// Platform reports which substrate backs adapters from this Provider.
func (p *Provider) Platform() domain.Platform { return p.platform }

// Available reports whether the durable local store opened.
func (p *Provider) Available() bool { return p.db != nil }

// Close releases the local store handle.
func (p *Provider) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Adapter returns the platform-appropriate StorageAdapter for one instance.
func (p *Provider) Adapter(id domain.InstanceID) domain.StorageAdapter {
	switch p.platform {
	case domain.PlatformHost:
		return &hostStore{id: id, client: p.host}
	case domain.PlatformVault:
		return &vaultStore{
			id:    id,
			local: &localStore{id: id, provider: p},
			appID: p.appID,
			index: p,
		}
	default:
		return &localStore{id: id, provider: p}
	}
}

// TrackedVaultInstances lists every instance id with a recorded vault entry.
func (p *Provider) TrackedVaultInstances(ctx context.Context) ([]domain.InstanceID, error) {
	if p.db == nil {
		return nil, ErrStoreUnavailable
	}
	var ids []domain.InstanceID
	err := p.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(indexBucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, domain.InstanceID(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ClearVaultSession removes the vault entries and index record for one
// instance, regardless of whether a KeyManager exists for it.
func (p *Provider) ClearVaultSession(ctx context.Context, id domain.InstanceID) error {
	vs := &vaultStore{
		id:    id,
		local: &localStore{id: id, provider: p},
		appID: p.appID,
		index: p,
	}
	return vs.ClearSession(ctx)
}

func (p *Provider) trackVaultInstance(id domain.InstanceID) error {
	if p.db == nil {
		return ErrStoreUnavailable
	}
	return p.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(indexBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), []byte{1})
	})
}

func (p *Provider) untrackVaultInstance(id domain.InstanceID) error {
	if p.db == nil {
		return ErrStoreUnavailable
	}
	return p.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(indexBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id))
	})
}

var _ domain.SessionIndex = (*Provider)(nil)
