// Package modelcache caches expensive-to-parse network models in memory and on disk.
//
// A Cache sits in front of a loader that parses a source file. Results are
// kept in a byte-budgeted LRU and persisted as compressed records, so a
// restarted process reads the parsed object back instead of parsing again.
// Cache keys are derived from the source path, size and modification time:
// editing a source file makes the next request miss and reload it.
//
//	cache, err := modelcache.Open(cfg, modelcache.JSON[Network]())
//	if err != nil {
//		return err
//	}
//	defer cache.Close()
//
//	net, err := cache.GetOrLoad(ctx, "models/grid.xml", parseNetwork)
package modelcache

import (
	"context"

	"go.trai.ch/modelcache/internal/adapters/disk"
	"go.trai.ch/modelcache/internal/adapters/fs"
	"go.trai.ch/modelcache/internal/adapters/logger"
	"go.trai.ch/modelcache/internal/adapters/memory"
	"go.trai.ch/modelcache/internal/adapters/telemetry"
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/modelcache/internal/engine/manager"
	"go.trai.ch/modelcache/internal/engine/warmer"
	"go.trai.ch/zerr"
)

type (
	// Config is the cache configuration.
	Config = domain.Config
	// CleanupConfig holds the disk tier retention thresholds.
	CleanupConfig = domain.CleanupConfig
	// CompressionLevel selects the disk tier compression trade-off.
	CompressionLevel = domain.CompressionLevel
	// CleanupPolicy selects which disk records a cleanup removes.
	CleanupPolicy = domain.CleanupPolicy
	// CleanupReport summarizes a cleanup pass.
	CleanupReport = domain.CleanupReport
	// Statistics is a point-in-time copy of the cache counters.
	Statistics = domain.Statistics
	// DiskUsage summarizes the disk tier.
	DiskUsage = domain.DiskUsage
	// Serializer converts cached objects to and from bytes.
	Serializer = ports.Serializer
	// Logger receives diagnostic output.
	Logger = ports.Logger
	// Tracer creates spans for cache operations.
	Tracer = ports.Tracer
)

// Compression levels.
const (
	CompressionFastest = domain.CompressionFastest
	CompressionDefault = domain.CompressionDefault
	CompressionBetter  = domain.CompressionBetter
	CompressionBest    = domain.CompressionBest
)

// DefaultConfig returns a configuration rooted at the per-user cache directory.
func DefaultConfig() Config {
	return domain.DefaultConfig()
}

// Option configures Open.
type Option func(*options)

type options struct {
	logger ports.Logger
	tracer ports.Tracer
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTracer sets the tracer. By default spans go to the global OpenTelemetry provider.
func WithTracer(t Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// Cache is a two-tier cache of T values. It is safe for concurrent use.
type Cache[T any] struct {
	manager *manager.Manager
}

// Open validates cfg, creates the cache directory and returns a ready cache.
// If cfg.Cleanup.Interval is set, a background cleanup runs until Close.
func Open[T any](cfg Config, serializer Serializer, opts ...Option) (*Cache[T], error) {
	o := options{
		logger: logger.Discard(),
		tracer: telemetry.NewOTelTracer(domain.AppName),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := disk.NewStore(cfg.CacheDir, cfg.CompressionLevel)
	if err != nil {
		return nil, err
	}

	managerOpts := []manager.Option{manager.WithLoadTimeout(cfg.LoadTimeout)}
	if cfg.Cleanup.Interval > 0 {
		managerOpts = append(managerOpts, manager.WithCleanupSchedule(cfg.Cleanup.Interval, cfg.CleanupPolicy()))
	}

	m := manager.New(
		fs.NewKeyDeriver(),
		store,
		memory.NewLRU(cfg.MemoryBudget),
		serializer,
		o.logger,
		o.tracer,
		managerOpts...,
	)
	return &Cache[T]{manager: m}, nil
}

// GetOrLoad returns the cached object for path or calls loader to produce it.
//
// Concurrent calls for the same unmodified file share a single loader call.
// A loader error is returned as is and nothing is cached.
func (c *Cache[T]) GetOrLoad(ctx context.Context, path string, loader func(ctx context.Context, path string) (T, error)) (T, error) {
	var zero T
	v, err := c.manager.GetOrLoad(ctx, path, func(ctx context.Context, path string) (any, error) {
		return loader(ctx, path)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnexpectedType, "type assertion failed"), "path", path), "type", typeName(v))
	}
	return typed, nil
}

// Warm loads every path into the cache with at most parallelism loads at a time.
// Failures do not stop the remaining paths and are returned joined.
func (c *Cache[T]) Warm(ctx context.Context, paths []string, loader func(ctx context.Context, path string) (T, error), parallelism int) error {
	w := warmer.New(c.manager, func(ctx context.Context, path string) (any, error) {
		return loader(ctx, path)
	})
	return w.Run(ctx, paths, parallelism)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[T]) Stats() Statistics {
	return c.manager.Snapshot()
}

// DiskUsage scans the cache directory.
func (c *Cache[T]) DiskUsage(ctx context.Context) (DiskUsage, error) {
	return c.manager.DiskUsage(ctx)
}

// Cleanup removes disk records selected by policy. Objects in memory stay resident.
func (c *Cache[T]) Cleanup(ctx context.Context, policy CleanupPolicy) (CleanupReport, error) {
	return c.manager.Cleanup(ctx, policy)
}

// ClearAll empties both tiers and resets the statistics.
func (c *Cache[T]) ClearAll(ctx context.Context) error {
	return c.manager.ClearAll(ctx)
}

// Close stops background cleanup. Further calls return ErrCacheClosed.
func (c *Cache[T]) Close() error {
	return c.manager.Close()
}
