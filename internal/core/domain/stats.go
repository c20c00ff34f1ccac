package domain

import "time"

// Statistics is a point-in-time copy of the cache counters.
// The counters and the memory gauges are taken together; BytesOnDisk comes
// from a scan of the disk tier made right after them.
type Statistics struct {
	MemoryHits        uint64
	MemoryMisses      uint64
	DiskHits          uint64
	DiskMisses        uint64
	DiskCorrupt       uint64
	DiskWriteErrors   uint64
	DiskBytesWritten  uint64
	LoaderInvocations uint64
	LoaderFailures    uint64
	Coalesced         uint64
	Evictions         uint64
	EntriesResident   int
	BytesResident     int64
	BytesOnDisk       int64
}

// HitRatio returns the share of requests served without calling the loader.
func (s Statistics) HitRatio() float64 {
	hits := s.MemoryHits + s.DiskHits
	total := hits + s.LoaderInvocations + s.Coalesced
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// CleanupPolicy selects which disk records a cleanup removes.
// A zero MaxAge disables the age check; a nil MaxTotalBytes disables the size budget.
type CleanupPolicy struct {
	MaxAge        time.Duration
	MaxTotalBytes *int64
}

// CleanupReport summarizes a cleanup pass.
type CleanupReport struct {
	Scanned        int
	Removed        int
	RemovedBytes   int64
	RemainingBytes int64
}

// DiskUsage summarizes the records currently in the disk tier.
type DiskUsage struct {
	Records int
	Broken  int
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}
