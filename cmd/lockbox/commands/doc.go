// Package commands defines the lockbox CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - setup            Create the encryption key for a workspace
//   - unlock           Verify the password and load the key
//   - lock             Zero the in-memory key
//   - change-password  Re-key under a new password
//   - session          Persist, restore, inspect, or clear a saved session
//   - reset            Destroy all key material for a workspace
//   - instances        List, create, and prune workspaces
//
// # Implementation
//
// The root command loads configuration (flags over LOCKBOX_* environment
// variables over config.yaml) and builds the dependency graph — storage
// provider, key manager registry, instance directory — before any subcommand
// runs. Passwords come from the -p flag or a terminal prompt, never argv of
// subprocesses.
package commands
