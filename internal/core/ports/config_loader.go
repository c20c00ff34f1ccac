package ports

import "go.trai.ch/modelcache/internal/core/domain"

// ConfigLoader defines the interface for loading the cache configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path and applies defaults.
	// A missing file yields domain.DefaultConfig().
	Load(path string) (domain.Config, error)
}
