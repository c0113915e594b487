// Command hostagent is the desktop secure-store process. It exposes the
// per-instance key storage surface (salt, key check value, wrapping and
// wrapped session keys) as JSON over HTTP on a local socket, and keeps every
// value in the OS keychain. The lockbox CLI reaches it through the host
// storage backend.
package main
