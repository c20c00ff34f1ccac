// Package janitor reclaims disk tier space.
//
// Records for superseded keys are never deleted on write; they stay on disk
// until a cleanup pass selects them by age or by the total size budget.
package janitor

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	// TempFileMaxAge is the age after which an abandoned temp file is removed.
	TempFileMaxAge = time.Hour

	// removeConcurrency bounds parallel file deletions.
	removeConcurrency = 8
)

// Janitor applies cleanup policies to a disk store.
type Janitor struct {
	store  ports.DiskStore
	logger ports.Logger
	tracer ports.Tracer
	now    func() time.Time
}

// New creates a Janitor for store.
func New(store ports.DiskStore, logger ports.Logger, tracer ports.Tracer) *Janitor {
	return &Janitor{
		store:  store,
		logger: logger,
		tracer: tracer,
		now:    time.Now,
	}
}

// Cleanup removes records older than policy.MaxAge and then, if a size budget
// is set, the oldest-written records until the remaining total fits. A budget
// of zero removes every record. Records whose header cannot be read are always
// removed. The memory tier is never touched.
func (j *Janitor) Cleanup(ctx context.Context, policy domain.CleanupPolicy) (domain.CleanupReport, error) {
	ctx, span := j.tracer.Start(ctx, "modelcache.cleanup")
	defer span.End()

	report, err := j.cleanup(ctx, policy, TempFileMaxAge)
	span.SetAttribute("cleanup.scanned", report.Scanned)
	span.SetAttribute("cleanup.removed", report.Removed)
	if err != nil {
		span.RecordError(err)
		return report, err
	}

	j.logger.Debug("cleanup finished",
		"scanned", report.Scanned,
		"removed", report.Removed,
		"removed_bytes", report.RemovedBytes,
		"remaining_bytes", report.RemainingBytes,
	)
	return report, nil
}

// Purge removes every record and every temp file regardless of age.
func (j *Janitor) Purge(ctx context.Context) (domain.CleanupReport, error) {
	ctx, span := j.tracer.Start(ctx, "modelcache.purge")
	defer span.End()

	var zero int64
	report, err := j.cleanup(ctx, domain.CleanupPolicy{MaxTotalBytes: &zero}, 0)
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}

// Run applies policy every interval until ctx is done.
// Failed passes are logged and retried on the next tick.
func (j *Janitor) Run(ctx context.Context, interval time.Duration, policy domain.CleanupPolicy) error {
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := j.Cleanup(ctx, policy); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				j.logger.Error(zerr.Wrap(err, "scheduled cleanup failed"))
			}
		}
	}
}

// Usage scans the store and summarizes its records.
func (j *Janitor) Usage(ctx context.Context) (domain.DiskUsage, error) {
	var usage domain.DiskUsage
	for info, err := range j.store.List() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return usage, ctxErr
		}
		if err != nil {
			if info.FileName == "" {
				return usage, err
			}
			usage.Broken++
			usage.Bytes += info.FileSize
			continue
		}

		usage.Records++
		usage.Bytes += info.FileSize
		written := info.Header.WrittenAt
		if usage.Oldest.IsZero() || written.Before(usage.Oldest) {
			usage.Oldest = written
		}
		if written.After(usage.Newest) {
			usage.Newest = written
		}
	}
	return usage, nil
}

func (j *Janitor) cleanup(ctx context.Context, policy domain.CleanupPolicy, tempAge time.Duration) (domain.CleanupReport, error) {
	var report domain.CleanupReport

	if swept, err := j.store.SweepTemp(tempAge); err != nil {
		j.logger.Warn("failed to sweep temp files", "dir", j.store.Dir(), "error", err.Error())
	} else if swept > 0 {
		j.logger.Debug("swept temp files", "count", swept)
	}

	var kept, doomed []domain.RecordInfo
	cutoff := j.now().Add(-policy.MaxAge)

	for info, err := range j.store.List() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		if err != nil {
			if info.FileName == "" {
				return report, err
			}
			report.Scanned++
			j.logger.Debug("removing unreadable record", "file", info.FileName)
			doomed = append(doomed, info)
			continue
		}

		report.Scanned++
		if policy.MaxAge > 0 && info.Header.WrittenAt.Before(cutoff) {
			doomed = append(doomed, info)
			continue
		}
		kept = append(kept, info)
	}

	if policy.MaxTotalBytes != nil {
		total := sumSizes(kept)

		slices.SortFunc(kept, func(a, b domain.RecordInfo) int {
			return cmp.Or(
				a.Header.WrittenAt.Compare(b.Header.WrittenAt),
				cmp.Compare(a.FileName, b.FileName),
			)
		})

		budget := max(*policy.MaxTotalBytes, 0)
		n := 0
		for n < len(kept) && total > budget {
			total -= kept[n].FileSize
			n++
		}
		doomed = append(doomed, kept[:n]...)
		kept = kept[n:]
	}

	removed, removedBytes, err := j.removeAll(ctx, doomed)
	report.Removed = removed
	report.RemovedBytes = removedBytes
	// Records that failed to delete are still on disk.
	report.RemainingBytes = sumSizes(kept) + sumSizes(doomed) - removedBytes

	return report, err
}

func (j *Janitor) removeAll(ctx context.Context, doomed []domain.RecordInfo) (int, int64, error) {
	var (
		mu      sync.Mutex
		removed int
		bytes   int64
		errs    error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(removeConcurrency)
	for _, info := range doomed {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			err := j.store.Remove(info.FileName)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = errors.Join(errs, err)
				return nil
			}
			removed++
			bytes += info.FileSize
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = errors.Join(errs, err)
	}
	return removed, bytes, errs
}

func sumSizes(infos []domain.RecordInfo) int64 {
	var total int64
	for _, info := range infos {
		total += info.FileSize
	}
	return total
}
