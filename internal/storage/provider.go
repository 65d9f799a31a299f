// Package storage supplies raw vault files to the publishing pipeline.
package storage

import (
	"time"

	"github.com/starford/vaultpress/internal/models"
)

// VirtualRoot is the first component of every snapshot path. Together with
// the vault directory name it forms the three-component prefix the vault
// processor strips from each path.
const VirtualRoot = "/Vault"

// Provider is the read-only interface for vault file access.
type Provider interface {
	// Snapshot returns every .md file of the vault in lexical path order,
	// keyed by "/Vault/<vault dir name>/<relative path>".
	Snapshot() ([]models.RawFile, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// ModTime returns the last modification time of the file at path.
	ModTime(path string) (time.Time, error)
	// Root returns the absolute vault directory.
	Root() string
}
