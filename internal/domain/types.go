package domain

// InstanceID names one independently keyed workspace. Opaque to this core;
// minted by the caller (the CLI uses UUIDs).
type InstanceID string

func (id InstanceID) String() string { return string(id) }

// Platform selects which secure-storage substrate backs an instance.
type Platform string

const (
	// PlatformLocal keeps every field in the durable local key-value store.
	PlatformLocal Platform = "local"
	// PlatformHost reaches a host-process secure store over IPC.
	PlatformHost Platform = "host"
	// PlatformVault keeps session keys in the OS credential vault.
	PlatformVault Platform = "vault"
)

// Field prefixes for persisted values. Every stored name is
// "<prefix>_<instanceID>", which isolates instances without a nested store.
const (
	SaltPrefix        = "salt"
	KCVPrefix         = "kcv"
	WrappingKeyPrefix = "wrapping_key"
	WrappedKeyPrefix  = "wrapped_key"
)

// FieldKey returns the namespaced storage key for one field of one instance.
func FieldKey(prefix string, id InstanceID) string {
	return prefix + "_" + string(id)
}
