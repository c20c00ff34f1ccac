package domain

import (
	"os"
	"path/filepath"
	"strconv"
)

const (
	// AppName is the name used for the default cache directory and telemetry.
	AppName = "modelcache"

	// ConfigFileName is the default configuration file name.
	ConfigFileName = "modelcache.yaml"

	// ConfigEnvVar overrides the configuration file path.
	ConfigEnvVar = "MODELCACHE_CONFIG"

	// RecordExt is the file extension of disk records.
	RecordExt = ".mcr"

	// RecordFormatVersion is the on-disk layout version. Bumping it orphans every existing record.
	RecordFormatVersion uint16 = 2

	// TempPattern is the os.CreateTemp pattern for in-progress record writes.
	TempPattern = ".tmp-*"

	// FingerprintBytes is the number of digest bytes kept in a key fingerprint.
	FingerprintBytes = 16

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for record files (rw-r--r--).
	FilePerm = 0o644
)

// RecordFileName returns the deterministic file name of the record for key.
func RecordFileName(key CacheKey) string {
	return key.Fingerprint() + ".v" + strconv.Itoa(int(RecordFormatVersion)) + RecordExt
}

// DefaultCacheDir returns the per-user cache directory, falling back to the temp dir.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, AppName)
}
