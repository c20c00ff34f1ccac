package ports

import "go.trai.ch/modelcache/internal/core/domain"

// KeyDeriver maps a source path to its cache key.
//
//go:generate mockgen -source=key_deriver.go -destination=mocks/mock_key_deriver.go -package=mocks
type KeyDeriver interface {
	// Derive stats path and returns its key.
	// It fails with domain.ErrSourceNotFound if the path does not exist or is unreadable.
	Derive(path string) (domain.CacheKey, error)
}
