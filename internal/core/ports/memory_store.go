package ports

import "go.trai.ch/modelcache/internal/core/domain"

// MemoryStore is the bounded in-process tier of the cache.
//
//go:generate mockgen -source=memory_store.go -destination=mocks/mock_memory_store.go -package=mocks
type MemoryStore interface {
	// Get returns the object for key and marks it most recently used.
	Get(key domain.CacheKey) (any, bool)
	// Put inserts or replaces key and returns the number of entries evicted to fit the budget.
	Put(key domain.CacheKey, value any, size int64) int
	// Evict removes key and reports whether it was present.
	Evict(key domain.CacheKey) bool
	// Clear removes every entry and returns how many were removed.
	Clear() int
	// Len returns the number of resident entries.
	Len() int
	// ResidentBytes returns the summed approximate size of resident entries.
	ResidentBytes() int64
	// Budget returns the configured byte budget.
	Budget() int64
}
