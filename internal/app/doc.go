// Package app loads configuration and wires the dependency graph for the
// CLI: the storage provider, the instance registry, and the on-disk instance
// directory the CLI treats as its external registry of workspaces.
package app
