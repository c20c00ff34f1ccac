package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"time"
)

// CacheKey identifies one version of a source file.
// Two keys are equal iff path, size and modification time all match, so a
// modified file yields a new key and old records are simply never looked up again.
type CacheKey struct {
	Path    string
	Size    int64
	ModTime int64 // UnixNano
}

// NewCacheKey builds a key from an absolute path and the file's identity.
func NewCacheKey(path string, size int64, modTime time.Time) CacheKey {
	return CacheKey{
		Path:    path,
		Size:    size,
		ModTime: modTime.UnixNano(),
	}
}

// IsZero reports whether the key is unset.
func (k CacheKey) IsZero() bool {
	return k == CacheKey{}
}

// Fingerprint returns a stable hex digest of the key identity.
// It names the record file in the disk tier and keys the single-flight group.
func (k CacheKey) Fingerprint() string {
	h := sha256.New()
	_, _ = h.Write([]byte(k.Path))
	_, _ = h.Write([]byte{0})

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(k.Size))
	binary.LittleEndian.PutUint64(buf[8:], uint64(k.ModTime))
	_, _ = h.Write(buf[:])

	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:FingerprintBytes])
}

// String renders the key for logs.
func (k CacheKey) String() string {
	return k.Path + "@" + strconv.FormatInt(k.Size, 10) + ":" + strconv.FormatInt(k.ModTime, 10)
}
