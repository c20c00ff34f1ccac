package domain

import "time"

// Compression identifies the algorithm used for a record payload.
type Compression uint8

const (
	// CompressionNone stores the payload as-is.
	CompressionNone Compression = iota
	// CompressionZstd stores the payload as a single zstd frame.
	CompressionZstd
)

// String returns the algorithm name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// RecordHeader is the metadata stored in front of every disk record.
type RecordHeader struct {
	Key              CacheKey
	Format           string // serializer format tag, e.g. "json/1"
	Compression      Compression
	UncompressedSize int64
	CompressedSize   int64
	Checksum         uint64 // xxhash64 of the encoded header (checksum field zeroed) and the compressed payload
	WrittenAt        time.Time
}

// DiskRecord is a validated record with its decompressed payload.
type DiskRecord struct {
	Header  RecordHeader
	Payload []byte
}

// RecordInfo describes a record found while listing the cache directory.
type RecordInfo struct {
	Header   RecordHeader
	FileName string
	FileSize int64
}

// ReadStatus tags the outcome of a disk tier read.
type ReadStatus uint8

const (
	// ReadMiss means no record exists for the key.
	ReadMiss ReadStatus = iota
	// ReadValid means the record was found and verified.
	ReadValid
	// ReadCorrupt means a record exists but must not be used.
	ReadCorrupt
)

// String returns the status name.
func (s ReadStatus) String() string {
	switch s {
	case ReadMiss:
		return "miss"
	case ReadValid:
		return "valid"
	case ReadCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// ReadResult is the tagged result of a disk tier read.
// Record is set only for ReadValid; Reason explains ReadCorrupt.
type ReadResult struct {
	Status ReadStatus
	Record *DiskRecord
	Reason error
}
