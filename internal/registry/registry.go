package registry

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"lockbox/internal/crypto"
	"lockbox/internal/domain"
	"lockbox/internal/keymanager"
)

var (
	// ErrNoCurrentInstance is returned by Current before SetCurrent was
	// called. Reading the ambient instance without selecting one is caller
	// misuse, not a recoverable condition.
	ErrNoCurrentInstance = errors.New("no current instance selected")
)

// StorageProvider is what the registry needs from the storage layer:
// per-instance adapters plus the substrate-wide views the orphan sweep uses.
// Satisfied by storage.Provider.
type StorageProvider interface {
	keymanager.AdapterProvider
	domain.SessionIndex
	Platform() domain.Platform
	Available() bool
}

// Registry is the process-wide directory of KeyManagers: one per instance,
// created on first access and reused until evicted.
type Registry struct {
	provider StorageProvider
	params   crypto.Params
	log      zerolog.Logger

	mu         sync.Mutex
	managers   map[domain.InstanceID]*keymanager.Manager
	current    domain.InstanceID
	hasCurrent bool
}

// New returns an empty registry over provider.
func New(provider StorageProvider, params crypto.Params, log zerolog.Logger) *Registry {
	return &Registry{
		provider: provider,
		params:   params,
		log:      log,
		managers: make(map[domain.InstanceID]*keymanager.Manager),
	}
}

// Manager returns the KeyManager for id, creating it on first reference.
func (r *Registry) Manager(id domain.InstanceID) *keymanager.Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[id]
	if !ok {
		m = keymanager.New(id, r.provider, r.params, r.log)
		r.managers[id] = m
	}
	return m
}

// SetCurrent names the ambient instance used by Current.
func (r *Registry) SetCurrent(id domain.InstanceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = id
	r.hasCurrent = true
}

// ClearCurrent unsets the ambient instance pointer.
func (r *Registry) ClearCurrent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = ""
	r.hasCurrent = false
}

// Current returns the manager for the ambient instance, or
// ErrNoCurrentInstance when none was selected.
func (r *Registry) Current() (*keymanager.Manager, error) {
	r.mu.Lock()
	if !r.hasCurrent {
		r.mu.Unlock()
		return nil, ErrNoCurrentInstance
	}
	id := r.current
	r.mu.Unlock()
	return r.Manager(id), nil
}

// ClearManager zeroes the live key for id and evicts its manager, clearing
// the current pointer when it named this instance. Process-lifetime cleanup
// only; persisted storage is untouched.
func (r *Registry) ClearManager(id domain.InstanceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.managers[id]; ok {
		m.ClearKey()
		delete(r.managers, id)
	}
	if r.hasCurrent && r.current == id {
		r.current = ""
		r.hasCurrent = false
	}
}

// ClearAll zeroes every live key and empties the registry.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.managers {
		m.ClearKey()
		delete(r.managers, id)
	}
	r.current = ""
	r.hasCurrent = false
}
