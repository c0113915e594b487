package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"lockbox/internal/crypto"
	"lockbox/internal/domain"
	"lockbox/internal/registry"
	"lockbox/internal/storage"
)

// Wire bundles the storage provider, registry, and instance directory for
// the CLI.
type Wire struct {
	Provider  *storage.Provider
	Registry  *registry.Registry
	Instances *InstanceDir
	Log       zerolog.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	log := newLogger(cfg.Verbose)

	provider := storage.NewProvider(storage.Config{
		Dir:         cfg.Home,
		Platform:    domain.Platform(cfg.Platform),
		AgentSocket: cfg.AgentSocket,
		AppID:       cfg.AppID,
		Logger:      log,
	})

	params := crypto.DefaultParams()
	if cfg.KDFIterations > 0 {
		params.Iterations = cfg.KDFIterations
	}

	reg := registry.New(provider, params, log)
	if cfg.Instance != "" {
		reg.SetCurrent(domain.InstanceID(cfg.Instance))
	}

	return &Wire{
		Provider:  provider,
		Registry:  reg,
		Instances: NewInstanceDir(cfg.Home),
		Log:       log,
	}, nil
}

// Close releases substrate handles.
func (w *Wire) Close() error {
	w.Registry.ClearAll()
	return w.Provider.Close()
}

func newLogger(verbose bool) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
