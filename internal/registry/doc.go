// Package registry tracks the live KeyManager for every instance in the
// process, the single "current" instance pointer, and the reconciliation
// sweep that prunes orphaned key storage.
//
// The registry is an explicit object handed to call sites rather than
// module-level state. Go callers are genuinely concurrent, so the map and
// current pointer sit behind a mutex; lifecycle calls on one manager are
// still the caller's to serialize.
package registry
