// Package manager implements the multi-level cache in front of an expensive loader.
//
// A request is served from the memory tier, then the disk tier, and only then
// by the loader. Concurrent misses for the same key share one loader call.
// Keys encode the source file's size and modification time, so a modified
// file simply misses and is reloaded.
package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/modelcache/internal/engine/janitor"
	"go.trai.ch/modelcache/internal/engine/stats"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Tier names where a request was served from.
const (
	TierMemory = "memory"
	TierDisk   = "disk"
	TierLoader = "loader"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLoadTimeout bounds every loader call. Zero means no bound.
func WithLoadTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.loadTimeout = d
	}
}

// WithCleanupSchedule runs policy every interval in the background until Close.
func WithCleanupSchedule(interval time.Duration, policy domain.CleanupPolicy) Option {
	return func(m *Manager) {
		m.cleanupInterval = interval
		m.cleanupPolicy = policy
	}
}

// Manager coordinates the key deriver, both tiers and the loader.
type Manager struct {
	deriver ports.KeyDeriver
	disk    ports.DiskStore
	memory  ports.MemoryStore
	codec   ports.Serializer
	janitor *janitor.Janitor
	stats   *stats.Collector
	logger  ports.Logger
	tracer  ports.Tracer

	flights singleflight.Group

	loadTimeout     time.Duration
	cleanupInterval time.Duration
	cleanupPolicy   domain.CleanupPolicy

	closed    atomic.Bool
	closeOnce sync.Once
	stop      context.CancelFunc
	bg        *errgroup.Group
}

// New creates a Manager. Close must be called to stop background cleanup.
func New(
	deriver ports.KeyDeriver,
	disk ports.DiskStore,
	memory ports.MemoryStore,
	codec ports.Serializer,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Manager {
	m := &Manager{
		deriver: deriver,
		disk:    disk,
		memory:  memory,
		codec:   codec,
		janitor: janitor.New(disk, logger, tracer),
		stats:   stats.NewCollector(),
		logger:  logger,
		tracer:  tracer,
	}
	for _, opt := range opts {
		opt(m)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.stop = cancel
	m.bg, ctx = errgroup.WithContext(ctx)
	if m.cleanupInterval > 0 {
		m.bg.Go(func() error {
			return m.janitor.Run(ctx, m.cleanupInterval, m.cleanupPolicy)
		})
	}

	return m
}

type flightResult struct {
	value any
	tier  string
}

// GetOrLoad returns the object for path, loading it at most once per file version.
//
// Loader errors are returned unchanged and nothing is cached for them. A
// caller whose ctx ends while waiting is released with ctx.Err(); the shared
// load continues for the remaining waiters.
func (m *Manager) GetOrLoad(ctx context.Context, path string, loader ports.Loader) (any, error) {
	if m.closed.Load() {
		return nil, domain.ErrCacheClosed
	}

	ctx, span := m.tracer.Start(ctx, "modelcache.get_or_load", ports.WithAttribute("cache.path", path))
	defer span.End()

	key, err := m.deriver.Derive(path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	fingerprint := key.Fingerprint()
	span.SetAttribute("cache.key", fingerprint)

	if v, ok := m.memory.Get(key); ok {
		m.stats.Inc(stats.MemoryHit)
		span.SetAttribute("cache.tier", TierMemory)
		return v, nil
	}
	m.stats.Inc(stats.MemoryMiss)

	var led bool
	detached := context.WithoutCancel(ctx)
	ch := m.flights.DoChan(fingerprint, func() (any, error) {
		led = true
		return m.fill(detached, key, loader)
	})

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return nil, ctx.Err()
	case res := <-ch:
		if !led {
			m.stats.Inc(stats.Coalesced)
			span.SetAttribute("cache.coalesced", true)
		}
		if res.Err != nil {
			span.RecordError(res.Err)
			return nil, res.Err
		}
		out, _ := res.Val.(flightResult)
		span.SetAttribute("cache.tier", out.tier)
		return out.value, nil
	}
}

// fill runs once per key at a time: it checks memory again, then disk, then calls the loader.
func (m *Manager) fill(ctx context.Context, key domain.CacheKey, loader ports.Loader) (flightResult, error) {
	if v, ok := m.memory.Get(key); ok {
		return flightResult{value: v, tier: TierMemory}, nil
	}

	if v, ok := m.readDisk(key); ok {
		return flightResult{value: v, tier: TierDisk}, nil
	}

	v, err := m.load(ctx, key, loader)
	if err != nil {
		return flightResult{}, err
	}
	return flightResult{value: v, tier: TierLoader}, nil
}

func (m *Manager) readDisk(key domain.CacheKey) (any, bool) {
	res := m.disk.Read(key)

	switch res.Status {
	case domain.ReadMiss:
		m.stats.Inc(stats.DiskMiss)
		return nil, false

	case domain.ReadCorrupt:
		m.discardCorrupt(key, res.Reason)
		return nil, false

	case domain.ReadValid:
		header := res.Record.Header
		if header.Format != m.codec.Format() {
			m.discardCorrupt(key, zerr.With(zerr.With(domain.ErrFormatMismatch, "want", m.codec.Format()), "got", header.Format))
			return nil, false
		}

		v, err := m.codec.Unmarshal(res.Record.Payload)
		if err != nil {
			m.discardCorrupt(key, err)
			return nil, false
		}

		m.stats.Inc(stats.DiskHit)
		m.promote(key, v, int64(len(res.Record.Payload)))
		m.logger.Debug("served from disk", "path", key.Path, "key", key.Fingerprint())
		return v, true
	}

	return nil, false
}

// discardCorrupt counts a corrupt record as a miss and deletes it.
func (m *Manager) discardCorrupt(key domain.CacheKey, reason error) {
	m.stats.Inc(stats.DiskCorrupt)
	m.stats.Inc(stats.DiskMiss)
	m.logger.Warn("discarding corrupt cache record", "path", key.Path, "key", key.Fingerprint(), "reason", errString(reason))

	if err := m.disk.Delete(key); err != nil {
		m.logger.Error(zerr.Wrap(err, "failed to delete corrupt record"))
	}
}

func (m *Manager) load(ctx context.Context, key domain.CacheKey, loader ports.Loader) (any, error) {
	m.stats.Inc(stats.LoaderInvocation)

	if m.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.loadTimeout)
		defer cancel()
	}

	started := time.Now()
	v, err := callLoader(ctx, key.Path, loader)
	if err != nil {
		m.stats.Inc(stats.LoaderFailure)
		return nil, err
	}
	m.logger.Debug("loaded from source", "path", key.Path, "duration", time.Since(started).String())

	size := int64(0)
	payload, err := m.codec.Marshal(v)
	if err != nil {
		m.stats.Inc(stats.DiskWriteError)
		m.logger.Error(zerr.With(zerr.Wrap(err, "object not written to disk"), "path", key.Path))
	} else {
		size = int64(len(payload))
		m.writeDisk(key, payload)
	}

	m.promote(key, v, size)
	return v, nil
}

// callLoader turns a loader panic into an error so it reaches every waiter.
func callLoader(ctx context.Context, path string, loader ports.Loader) (v any, err error) {
	defer zerr.Defer(func(recovered error) {
		v, err = nil, zerr.Wrap(recovered, "loader panicked")
	})
	return loader(ctx, path)
}

func (m *Manager) writeDisk(key domain.CacheKey, payload []byte) {
	header, err := m.disk.Write(key, m.codec.Format(), payload)
	if err != nil {
		m.stats.Inc(stats.DiskWriteError)
		m.logger.Error(zerr.Wrap(err, "object not written to disk"))
		return
	}
	m.stats.Add(stats.DiskBytesWritten, uint64(max(header.CompressedSize, 0))) //nolint:gosec // Non-negative by max
}

// promote puts v in the memory tier. Objects implementing ports.Sizer report
// their own size; otherwise fallback, the serialized length, is used.
func (m *Manager) promote(key domain.CacheKey, v any, fallback int64) {
	size := fallback
	if sizer, ok := v.(ports.Sizer); ok {
		size = sizer.ApproxSize()
	}

	if budget := m.memory.Budget(); size > budget {
		m.logger.Warn(domain.ErrCapacityExceeded.Error(), "path", key.Path, "size", size, "budget", budget)
	}

	// Put and the eviction count land under the collector lock, so a
	// snapshot never sees one without the other.
	m.stats.Locked(func(s *domain.Statistics) {
		s.Evictions += uint64(max(m.memory.Put(key, v, size), 0)) //nolint:gosec // Non-negative by max
	})
}

// Snapshot returns the counters and memory tier gauges as of one instant,
// plus the size of the disk tier scanned right after. The disk directory may
// be shared with other processes, so its size is measured rather than tracked.
func (m *Manager) Snapshot() domain.Statistics {
	var s domain.Statistics
	m.stats.Locked(func(cur *domain.Statistics) {
		s = *cur
		s.EntriesResident = m.memory.Len()
		s.BytesResident = m.memory.ResidentBytes()
	})

	usage, err := m.janitor.Usage(context.Background())
	if err != nil {
		m.logger.Warn("failed to measure disk tier", "dir", m.disk.Dir(), "error", err.Error())
	}
	s.BytesOnDisk = usage.Bytes
	return s
}

// DiskUsage scans the disk tier.
func (m *Manager) DiskUsage(ctx context.Context) (domain.DiskUsage, error) {
	return m.janitor.Usage(ctx)
}

// Cleanup removes disk records selected by policy. The memory tier is not touched.
func (m *Manager) Cleanup(ctx context.Context, policy domain.CleanupPolicy) (domain.CleanupReport, error) {
	if m.closed.Load() {
		return domain.CleanupReport{}, domain.ErrCacheClosed
	}
	return m.janitor.Cleanup(ctx, policy)
}

// ClearAll empties both tiers and resets the statistics.
// Loads already in flight may repopulate the cache after it returns.
func (m *Manager) ClearAll(ctx context.Context) error {
	if m.closed.Load() {
		return domain.ErrCacheClosed
	}

	report, err := m.janitor.Purge(ctx)
	var cleared int
	m.stats.Locked(func(s *domain.Statistics) {
		cleared = m.memory.Clear()
		*s = domain.Statistics{}
	})
	if err != nil {
		return zerr.Wrap(err, "failed to purge disk tier")
	}

	m.logger.Info("cache cleared", "memory_entries", cleared, "disk_records", report.Removed)
	return nil
}

// Close stops background cleanup. Loads in flight finish on their own.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		m.stop()
	})
	return m.bg.Wait()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
