// Package fs provides file system adapters for deriving cache keys from source files.
package fs

import (
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.KeyDeriver = (*KeyDeriver)(nil)

// KeyDeriver derives cache keys from a file's absolute path, size and modification time.
type KeyDeriver struct{}

// NewKeyDeriver creates a new KeyDeriver.
func NewKeyDeriver() *KeyDeriver {
	return &KeyDeriver{}
}

// Derive returns the key for the file at path.
// The file is opened to prove it is readable; nothing is read or written.
func (d *KeyDeriver) Derive(path string) (domain.CacheKey, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.CacheKey{}, sourceNotFound(err, path)
	}

	f, err := os.Open(abs) //nolint:gosec // Path is provided by the trusted caller
	if err != nil {
		return domain.CacheKey{}, sourceNotFound(err, abs)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	info, err := f.Stat()
	if err != nil {
		return domain.CacheKey{}, sourceNotFound(err, abs)
	}
	if info.IsDir() {
		return domain.CacheKey{}, sourceNotFound(domain.ErrSourceIsDirectory, abs)
	}

	return domain.NewCacheKey(abs, info.Size(), info.ModTime()), nil
}

func sourceNotFound(cause error, path string) error {
	return zerr.With(errors.Join(domain.ErrSourceNotFound, cause), "path", path)
}
