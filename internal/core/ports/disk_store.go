package ports

import (
	"iter"
	"time"

	"go.trai.ch/modelcache/internal/core/domain"
)

// DiskStore is the persistent, compressed tier of the cache.
//
//go:generate mockgen -source=disk_store.go -destination=mocks/mock_disk_store.go -package=mocks
type DiskStore interface {
	// Read locates and verifies the record for key.
	// Corruption is reported as domain.ReadCorrupt, never as a valid record.
	Read(key domain.CacheKey) domain.ReadResult

	// Write compresses payload and atomically replaces the record for key.
	Write(key domain.CacheKey, format string, payload []byte) (domain.RecordHeader, error)

	// Delete removes the record for key. Deleting a missing record is not an error.
	Delete(key domain.CacheKey) error

	// Remove deletes a record file by name, as reported by List.
	Remove(fileName string) error

	// List enumerates record headers. Each range over the sequence rescans the directory.
	// Records with an unreadable header are yielded with a non-nil error and FileName set.
	List() iter.Seq2[domain.RecordInfo, error]

	// SweepTemp removes abandoned temporary files older than age.
	SweepTemp(age time.Duration) (int, error)

	// Dir returns the cache directory.
	Dir() string
}

// DiskStoreFactory opens a disk store for a configured cache directory.
type DiskStoreFactory interface {
	// Open creates the directory if needed and returns a store rooted at it.
	Open(dir string, level domain.CompressionLevel) (DiskStore, error)
}
