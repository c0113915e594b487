// Package keymanager orchestrates the key lifecycle for one instance.
//
// A Manager moves through four states: uninitialized (no storage bound), no
// key (storage bound, no salt), locked (salt and key check value exist, no
// live key), and unlocked (live key held). The live derived key is the only
// in-memory copy and sits in a locked buffer that is destroyed on clear,
// reset, or eviction.
//
// Expected negatives (wrong password, no persisted session) come back as nil
// results, not errors; errors mean caller misuse or a failing substrate.
package keymanager
