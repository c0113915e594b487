package app

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"lockbox/internal/domain"
)

const instancesFile = "instances.json"

// InstanceRecord is one workspace entry in the instance directory.
type InstanceRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedUTC int64  `json:"created_utc"`
}

// InstanceDir is the durable list of known workspaces, persisted as JSON in
// the state directory. It is the "external registry" the orphan sweep
// reconciles key storage against.
type InstanceDir struct {
	path string
	mu   sync.Mutex
}

// NewInstanceDir returns the directory stored under dir.
func NewInstanceDir(dir string) *InstanceDir {
	return &InstanceDir{path: filepath.Join(dir, instancesFile)}
}

// List returns every known workspace.
func (d *InstanceDir) List() ([]InstanceRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var recs []InstanceRecord
	if err := readJSON(d.path, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// IDs returns the instance ids of every known workspace.
func (d *InstanceDir) IDs() ([]domain.InstanceID, error) {
	recs, err := d.List()
	if err != nil {
		return nil, err
	}
	ids := make([]domain.InstanceID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, domain.InstanceID(r.ID))
	}
	return ids, nil
}

// Add mints a new workspace with a fresh id and persists it.
func (d *InstanceDir) Add(name string) (InstanceRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var recs []InstanceRecord
	if err := readJSON(d.path, &recs); err != nil {
		return InstanceRecord{}, err
	}
	rec := InstanceRecord{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedUTC: time.Now().Unix(),
	}
	recs = append(recs, rec)
	if err := writeJSON(d.path, recs, 0o600); err != nil {
		return InstanceRecord{}, err
	}
	return rec, nil
}

// Remove deletes one workspace entry. Removing an unknown id is a no-op.
// The context parameter keeps Remove usable as the orphan sweep's delete
// callback.
func (d *InstanceDir) Remove(ctx context.Context, id domain.InstanceID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var recs []InstanceRecord
	if err := readJSON(d.path, &recs); err != nil {
		return err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.ID != string(id) {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(recs) {
		return nil
	}
	return writeJSON(d.path, kept, 0o600)
}
