package domain

import "go.trai.ch/zerr"

var (
	// ErrSourceNotFound is returned when a source file is missing or cannot be stat'ed.
	ErrSourceNotFound = zerr.New("source file not found")

	// ErrSourceIsDirectory is returned when a key is requested for a directory.
	ErrSourceIsDirectory = zerr.New("source path is a directory")

	// ErrCorruptRecord marks a disk record that failed validation.
	// It never escapes the cache manager; corrupt records are treated as misses.
	ErrCorruptRecord = zerr.New("corrupt cache record")

	// ErrFormatMismatch is returned when a record was written by another format or serializer.
	ErrFormatMismatch = zerr.New("cache record format mismatch")

	// ErrChecksumMismatch is returned when the stored checksum does not match the payload.
	ErrChecksumMismatch = zerr.New("cache record checksum mismatch")

	// ErrKeyMismatch is returned when a record belongs to a different source identity.
	ErrKeyMismatch = zerr.New("cache record key mismatch")

	// ErrCapacityExceeded is logged when a single entry is larger than the memory budget.
	ErrCapacityExceeded = zerr.New("entry exceeds memory budget")

	// ErrDiskReadFailed is returned when a disk record cannot be read.
	ErrDiskReadFailed = zerr.New("failed to read cache record")

	// ErrDiskWriteFailed is returned when a disk record cannot be written.
	ErrDiskWriteFailed = zerr.New("failed to write cache record")

	// ErrDiskDeleteFailed is returned when a disk record cannot be removed.
	ErrDiskDeleteFailed = zerr.New("failed to delete cache record")

	// ErrDiskListFailed is returned when the cache directory cannot be enumerated.
	ErrDiskListFailed = zerr.New("failed to list cache records")

	// ErrCacheDirCreateFailed is returned when the cache directory cannot be created.
	ErrCacheDirCreateFailed = zerr.New("failed to create cache directory")

	// ErrSerializeFailed is returned when an object cannot be serialized.
	ErrSerializeFailed = zerr.New("failed to serialize object")

	// ErrDeserializeFailed is returned when a payload cannot be deserialized.
	ErrDeserializeFailed = zerr.New("failed to deserialize object")

	// ErrUnexpectedType is returned when a cached object has a different type than requested.
	ErrUnexpectedType = zerr.New("cached object has unexpected type")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrCacheClosed is returned when an operation is attempted on a closed cache.
	ErrCacheClosed = zerr.New("cache is closed")
)
