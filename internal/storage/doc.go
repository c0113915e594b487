// Package storage implements the three StorageAdapter backends and the
// Provider that selects between them.
//
// Backends
//
//   - local: every field lives in a durable local key-value file (bbolt),
//     namespaced by instance id.
//   - host: every operation is a JSON-over-HTTP call to the host agent's
//     secure-store surface, reached over a unix socket or named pipe. A
//     method the agent does not expose degrades to "field absent".
//   - vault: salt and key check value go through the local store (they are
//     not secret by themselves); the wrapping and wrapped key live in the OS
//     credential vault under an app-scoped, instance-namespaced identifier.
//     The vault cannot enumerate its own entries, so vault writes also record
//     the instance id in a tracking index kept in the local store.
//
// The Provider owns the shared substrate handles (bbolt file, host client)
// and hands out one adapter per instance.
package storage
