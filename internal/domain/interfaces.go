package domain

import "context"

// StorageAdapter persists the per-instance key material fields. One adapter
// serves exactly one instance; implementations namespace every field by
// instance id so adapters for different instances never collide.
//
// Absent fields are reported as (nil, nil) or ("", nil), not as errors; an
// error means the substrate itself failed. Salt and the key check value are
// always written together by callers and must be treated as a pair.
type StorageAdapter interface {
	Salt(ctx context.Context) ([]byte, error)
	SetSalt(ctx context.Context, salt []byte) error

	KeyCheckValue(ctx context.Context) (string, error)
	SetKeyCheckValue(ctx context.Context, kcv string) error

	WrappingKey(ctx context.Context) ([]byte, error)
	SetWrappingKey(ctx context.Context, raw []byte) error

	WrappedKey(ctx context.Context) ([]byte, error)
	SetWrappedKey(ctx context.Context, blob []byte) error

	// HasSessionKeys reports whether both session fields exist. It must be a
	// cheap existence probe: never interactive, never decrypting anything.
	HasSessionKeys(ctx context.Context) (bool, error)

	// ClearSession wipes the wrapping and wrapped key only.
	ClearSession(ctx context.Context) error

	// Clear wipes all four fields for the instance.
	Clear(ctx context.Context) error
}

// SessionIndex enumerates instances that hold vault-backed session entries.
// The OS credential vault cannot list its own entries, so vault adapters
// maintain this index themselves; the orphan sweep consults it.
type SessionIndex interface {
	TrackedVaultInstances(ctx context.Context) ([]InstanceID, error)
	ClearVaultSession(ctx context.Context, id InstanceID) error
}
