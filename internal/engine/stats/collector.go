// Package stats collects cache counters and exposes consistent snapshots.
package stats

import (
	"sync"

	"go.trai.ch/modelcache/internal/core/domain"
)

// Counter names a monotonically increasing statistic.
type Counter int

// Counters tracked by the collector.
const (
	MemoryHit Counter = iota
	MemoryMiss
	DiskHit
	DiskMiss
	DiskCorrupt
	DiskWriteError
	DiskBytesWritten
	LoaderInvocation
	LoaderFailure
	Coalesced
	Eviction
)

// Collector accumulates statistics under one lock so a snapshot never
// observes a partial update.
type Collector struct {
	mu    sync.Mutex
	stats domain.Statistics
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add increments counter c by n.
func (c *Collector) Add(counter Counter, n uint64) {
	if n == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch counter {
	case MemoryHit:
		c.stats.MemoryHits += n
	case MemoryMiss:
		c.stats.MemoryMisses += n
	case DiskHit:
		c.stats.DiskHits += n
	case DiskMiss:
		c.stats.DiskMisses += n
	case DiskCorrupt:
		c.stats.DiskCorrupt += n
	case DiskWriteError:
		c.stats.DiskWriteErrors += n
	case DiskBytesWritten:
		c.stats.DiskBytesWritten += n
	case LoaderInvocation:
		c.stats.LoaderInvocations += n
	case LoaderFailure:
		c.stats.LoaderFailures += n
	case Coalesced:
		c.stats.Coalesced += n
	case Eviction:
		c.stats.Evictions += n
	}
}

// Inc increments counter c by one.
func (c *Collector) Inc(counter Counter) {
	c.Add(counter, 1)
}

// Snapshot returns a copy of every counter.
func (c *Collector) Snapshot() domain.Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Locked runs fn with the collector lock held. State that fn reads or changes
// is observed by Snapshot together with the counters. fn must not call back
// into the collector.
func (c *Collector) Locked(fn func(s *domain.Statistics)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.stats)
}
