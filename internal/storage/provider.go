// Package storage defines the read-only vault file-system abstraction.
package storage

import "iter"

// Provider is the interface for vault file discovery and reads.
type Provider interface {
	// Walk lazily yields the vault-relative path of every note file, depth first.
	Walk() iter.Seq[string]
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)
