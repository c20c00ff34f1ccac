// Package disk implements the persistent, compressed tier of the cache.
//
// Each record is a single file named after the key fingerprint. It holds a
// binary header followed by a zstd frame of the serialized object. Records are
// written to a temporary file in the same directory and renamed into place, so
// a reader never observes a partial record.
package disk

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// listBatch is the number of directory entries read per ReadDir call while listing.
	listBatch = 256
	// maxPrealloc caps the decode buffer reserved from a header's claimed size.
	maxPrealloc int64 = 64 << 20
)

var _ ports.DiskStore = (*Store)(nil)

// Store implements ports.DiskStore on a flat directory of record files.
type Store struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	now     func() time.Time
}

// NewStore creates the cache directory if needed and returns a store rooted at it.
func NewStore(dir string, level domain.CompressionLevel) (*Store, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrCacheDirCreateFailed, err), "dir", dir)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encoderLevel(level)))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd encoder")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd decoder")
	}

	return &Store{
		dir:     dir,
		encoder: encoder,
		decoder: decoder,
		now:     time.Now,
	}, nil
}

func encoderLevel(level domain.CompressionLevel) zstd.EncoderLevel {
	switch level {
	case domain.CompressionFastest:
		return zstd.SpeedFastest
	case domain.CompressionBetter:
		return zstd.SpeedBetterCompression
	case domain.CompressionBest:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) pathFor(key domain.CacheKey) string {
	return filepath.Join(s.dir, domain.RecordFileName(key))
}

// Read locates the record for key and verifies it end to end.
func (s *Store) Read(key domain.CacheKey) domain.ReadResult {
	path := s.pathFor(key)

	//nolint:gosec // Path is derived from the key fingerprint
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ReadResult{Status: domain.ReadMiss}
		}
		return corrupt(zerr.With(errors.Join(domain.ErrDiskReadFailed, err), "path", path))
	}

	r := bytes.NewReader(data)
	header, err := decodeHeader(r)
	if err != nil {
		return corrupt(zerr.With(err, "path", path))
	}
	if header.Key != key {
		return corrupt(zerr.With(zerr.With(domain.ErrKeyMismatch, "want", key.String()), "got", header.Key.String()))
	}

	headerLen := len(data) - r.Len()
	payload := data[headerLen:]
	if int64(len(payload)) != header.CompressedSize {
		return corrupt(zerr.With(zerr.With(domain.ErrCorruptRecord, "want_bytes", header.CompressedSize), "got_bytes", len(payload)))
	}
	if recordChecksum(data[:headerLen], payload) != header.Checksum {
		return corrupt(zerr.With(domain.ErrChecksumMismatch, "path", path))
	}

	decoded, err := s.decompress(header, payload)
	if err != nil {
		return corrupt(zerr.With(err, "path", path))
	}

	return domain.ReadResult{
		Status: domain.ReadValid,
		Record: &domain.DiskRecord{Header: header, Payload: decoded},
	}
}

func (s *Store) decompress(header domain.RecordHeader, payload []byte) ([]byte, error) {
	var decoded []byte
	switch header.Compression {
	case domain.CompressionNone:
		decoded = payload
	case domain.CompressionZstd:
		if len(payload) == 0 {
			break
		}
		out, err := s.decoder.DecodeAll(payload, make([]byte, 0, min(header.UncompressedSize, maxPrealloc)))
		if err != nil {
			return nil, errors.Join(domain.ErrCorruptRecord, err)
		}
		decoded = out
	default:
		return nil, zerr.With(domain.ErrFormatMismatch, "compression", header.Compression.String())
	}

	if int64(len(decoded)) != header.UncompressedSize {
		return nil, zerr.With(zerr.With(domain.ErrCorruptRecord, "want_bytes", header.UncompressedSize), "got_bytes", len(decoded))
	}
	return decoded, nil
}

func corrupt(reason error) domain.ReadResult {
	return domain.ReadResult{Status: domain.ReadCorrupt, Reason: reason}
}

// Write compresses payload and atomically replaces the record for key.
// Concurrent writers of the same key each rename a complete file; the last one wins.
func (s *Store) Write(key domain.CacheKey, format string, payload []byte) (domain.RecordHeader, error) {
	compressed := s.encoder.EncodeAll(payload, nil)
	header := domain.RecordHeader{
		Key:              key,
		Format:           format,
		Compression:      domain.CompressionZstd,
		UncompressedSize: int64(len(payload)),
		CompressedSize:   int64(len(compressed)),
		WrittenAt:        s.now(),
	}

	path := s.pathFor(key)
	encoded, err := encodeHeader(header)
	if err != nil {
		return domain.RecordHeader{}, zerr.With(errors.Join(domain.ErrDiskWriteFailed, err), "path", path)
	}
	header.Checksum = sealHeader(encoded, compressed)

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return domain.RecordHeader{}, zerr.With(errors.Join(domain.ErrCacheDirCreateFailed, err), "dir", s.dir)
	}

	if err := s.writeAtomic(path, encoded, compressed); err != nil {
		return domain.RecordHeader{}, zerr.With(errors.Join(domain.ErrDiskWriteFailed, err), "path", path)
	}
	return header, nil
}

func (s *Store) writeAtomic(path string, header, compressed []byte) error {
	tmpFile, err := os.CreateTemp(s.dir, domain.TempPattern)
	if err != nil {
		return zerr.Wrap(err, "failed to create temp record file")
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(header); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write record header")
	}
	if _, err := tmpFile.Write(compressed); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write record payload")
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to sync temp record file")
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp record file")
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to chmod record file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to rename temp record file")
	}
	return nil
}

// Delete removes the record for key. A missing record is not an error.
func (s *Store) Delete(key domain.CacheKey) error {
	return s.remove(s.pathFor(key))
}

// Remove deletes a record file by its base name.
func (s *Store) Remove(fileName string) error {
	if fileName == "" || filepath.Base(fileName) != fileName {
		return zerr.With(domain.ErrDiskDeleteFailed, "file", fileName)
	}
	return s.remove(filepath.Join(s.dir, fileName))
}

func (s *Store) remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(errors.Join(domain.ErrDiskDeleteFailed, err), "path", path)
	}
	return nil
}

// List lazily enumerates record headers in directory order.
// Files whose header cannot be decoded are yielded with an error so callers can remove them.
// Temporary files are skipped; see SweepTemp.
func (s *Store) List() iter.Seq2[domain.RecordInfo, error] {
	return func(yield func(domain.RecordInfo, error) bool) {
		//nolint:gosec // Directory is owned by the store
		dir, err := os.Open(s.dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return
			}
			yield(domain.RecordInfo{}, zerr.With(errors.Join(domain.ErrDiskListFailed, err), "dir", s.dir))
			return
		}
		defer dir.Close() //nolint:errcheck // Read-only handle

		for {
			entries, err := dir.ReadDir(listBatch)
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), domain.RecordExt) {
					continue
				}
				if !yield(s.inspect(entry)) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(domain.RecordInfo{}, zerr.With(errors.Join(domain.ErrDiskListFailed, err), "dir", s.dir))
				}
				return
			}
		}
	}
}

func (s *Store) inspect(entry fs.DirEntry) (domain.RecordInfo, error) {
	info := domain.RecordInfo{FileName: entry.Name()}

	fi, err := entry.Info()
	if err != nil {
		return info, zerr.With(errors.Join(domain.ErrDiskReadFailed, err), "file", entry.Name())
	}
	info.FileSize = fi.Size()

	path := filepath.Join(s.dir, entry.Name())
	//nolint:gosec // Path comes from listing the store directory
	f, err := os.Open(path)
	if err != nil {
		return info, zerr.With(errors.Join(domain.ErrDiskReadFailed, err), "file", entry.Name())
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	header, err := decodeHeader(f)
	if err != nil {
		return info, zerr.With(errors.Join(domain.ErrCorruptRecord, err), "file", entry.Name())
	}
	if domain.RecordFileName(header.Key) != entry.Name() {
		return info, zerr.With(domain.ErrKeyMismatch, "file", entry.Name())
	}

	info.Header = header
	return info, nil
}

// SweepTemp removes temporary files left behind by interrupted writes that are older than age.
func (s *Store) SweepTemp(age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, zerr.With(errors.Join(domain.ErrDiskListFailed, err), "dir", s.dir)
	}

	prefix := strings.TrimSuffix(domain.TempPattern, "*")
	cutoff := s.now().Add(-age)
	removed := 0
	var errs error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		fi, err := entry.Info()
		if err != nil || fi.ModTime().After(cutoff) {
			continue
		}
		if err := s.remove(filepath.Join(s.dir, entry.Name())); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}
