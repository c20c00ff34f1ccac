package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// CompressionLevel selects the speed/ratio trade-off of the disk tier.
type CompressionLevel string

const (
	// CompressionFastest favors write throughput.
	CompressionFastest CompressionLevel = "fastest"
	// CompressionDefault is the balanced level.
	CompressionDefault CompressionLevel = "default"
	// CompressionBetter trades CPU for smaller records.
	CompressionBetter CompressionLevel = "better"
	// CompressionBest produces the smallest records.
	CompressionBest CompressionLevel = "best"
)

// DefaultMemoryBudget is the memory tier budget used when none is configured.
const DefaultMemoryBudget int64 = 512 << 20

// Config is the configuration surface consumed by the cache.
type Config struct {
	CacheDir         string
	MemoryBudget     int64
	CompressionLevel CompressionLevel
	LoadTimeout      time.Duration
	Cleanup          CleanupConfig
}

// CleanupConfig holds the retention policy for the disk tier.
type CleanupConfig struct {
	MaxAge        time.Duration
	MaxTotalBytes int64 // 0 disables the size budget
	Interval      time.Duration
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		CacheDir:         DefaultCacheDir(),
		MemoryBudget:     DefaultMemoryBudget,
		CompressionLevel: CompressionDefault,
	}
}

// Validate checks that every value is in range.
// Failures match ErrInvalidConfig with errors.Is.
func (c Config) Validate() error {
	if c.CacheDir == "" {
		return invalidField("cache_dir", c.CacheDir)
	}
	if c.MemoryBudget < 0 {
		return invalidField("memory_budget", c.MemoryBudget)
	}
	if c.LoadTimeout < 0 {
		return invalidField("load_timeout", c.LoadTimeout)
	}
	if c.Cleanup.MaxAge < 0 {
		return invalidField("cleanup.max_age", c.Cleanup.MaxAge)
	}
	if c.Cleanup.MaxTotalBytes < 0 {
		return invalidField("cleanup.max_total_bytes", c.Cleanup.MaxTotalBytes)
	}
	if c.Cleanup.Interval < 0 {
		return invalidField("cleanup.interval", c.Cleanup.Interval)
	}
	switch c.CompressionLevel {
	case CompressionFastest, CompressionDefault, CompressionBetter, CompressionBest:
	default:
		return invalidField("compression_level", string(c.CompressionLevel))
	}
	return nil
}

func invalidField(field string, value any) error {
	return zerr.With(zerr.With(zerr.Wrap(ErrInvalidConfig, field), "field", field), "value", value)
}

// CleanupPolicy converts the configured thresholds into a cleanup policy.
func (c Config) CleanupPolicy() CleanupPolicy {
	policy := CleanupPolicy{MaxAge: c.Cleanup.MaxAge}
	if c.Cleanup.MaxTotalBytes > 0 {
		limit := c.Cleanup.MaxTotalBytes
		policy.MaxTotalBytes = &limit
	}
	return policy
}
