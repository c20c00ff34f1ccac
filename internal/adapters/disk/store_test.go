package disk_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modelcache/internal/adapters/disk"
	"go.trai.ch/modelcache/internal/core/domain"
)

const testFormat = "json/1"

func newStore(t *testing.T) *disk.Store {
	t.Helper()
	store, err := disk.NewStore(t.TempDir(), domain.CompressionDefault)
	require.NoError(t, err)
	return store
}

func testKey(name string) domain.CacheKey {
	return domain.CacheKey{Path: "/models/" + name, Size: 42, ModTime: 1_700_000_000_000_000_000}
}

func recordPath(store *disk.Store, key domain.CacheKey) string {
	return filepath.Join(store.Dir(), domain.RecordFileName(key))
}

// editRecord rewrites the record file for key through edit. With reseal the
// checksum is recomputed so the edit reaches the checks past it.
func editRecord(t *testing.T, store *disk.Store, key domain.CacheKey, reseal bool, edit func(data []byte)) {
	t.Helper()
	path := recordPath(store, key)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	edit(data)
	if reseal {
		require.NoError(t, disk.Reseal(data))
	}
	require.NoError(t, os.WriteFile(path, data, domain.FilePerm))
}

// setHeaderInt64 returns a mangler that replaces the int64 header field at offset.
func setHeaderInt64(offset int, reseal bool, value func(old int64) int64) func(*testing.T, *disk.Store, domain.CacheKey) {
	return func(t *testing.T, store *disk.Store, key domain.CacheKey) {
		editRecord(t, store, key, reseal, func(data []byte) {
			old := int64(binary.LittleEndian.Uint64(data[offset:]))
			binary.LittleEndian.PutUint64(data[offset:], uint64(value(old)))
		})
	}
}

func constant(v int64) func(int64) int64 { return func(int64) int64 { return v } }

func plusOne(old int64) int64 { return old + 1 }

func TestStore_WriteRead(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	key := testKey("net.xml")
	payload := bytes.Repeat([]byte("edge;"), 1000)

	written, err := store.Write(key, testFormat, payload)
	require.NoError(t, err)
	assert.Equal(t, domain.CompressionZstd, written.Compression)
	assert.Equal(t, int64(len(payload)), written.UncompressedSize)
	assert.Less(t, written.CompressedSize, written.UncompressedSize)

	res := store.Read(key)
	require.Equal(t, domain.ReadValid, res.Status, "reason: %v", res.Reason)
	require.NotNil(t, res.Record)
	assert.Equal(t, payload, res.Record.Payload)
	assert.Equal(t, key, res.Record.Header.Key)
	assert.Equal(t, testFormat, res.Record.Header.Format)
	assert.Equal(t, written.Checksum, res.Record.Header.Checksum)
	assert.Equal(t, written.WrittenAt.UnixNano(), res.Record.Header.WrittenAt.UnixNano())
}

func TestStore_CompressionLevels(t *testing.T) {
	t.Parallel()

	levels := []domain.CompressionLevel{
		domain.CompressionFastest,
		domain.CompressionDefault,
		domain.CompressionBetter,
		domain.CompressionBest,
	}
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			t.Parallel()
			store, err := disk.NewStore(t.TempDir(), level)
			require.NoError(t, err)

			payload := []byte(strings.Repeat("junction ", 200))
			_, err = store.Write(testKey("a"), testFormat, payload)
			require.NoError(t, err)

			res := store.Read(testKey("a"))
			require.Equal(t, domain.ReadValid, res.Status)
			assert.Equal(t, payload, res.Record.Payload)
		})
	}
}

func TestStore_EmptyPayload(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	_, err := store.Write(testKey("empty"), testFormat, nil)
	require.NoError(t, err)

	res := store.Read(testKey("empty"))
	require.Equal(t, domain.ReadValid, res.Status, "reason: %v", res.Reason)
	assert.Empty(t, res.Record.Payload)
}

func TestStore_ReadMiss(t *testing.T) {
	t.Parallel()

	res := newStore(t).Read(testKey("missing"))
	assert.Equal(t, domain.ReadMiss, res.Status)
	assert.Nil(t, res.Record)
	assert.NoError(t, res.Reason)
}

func TestStore_ReadCorrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mangle func(t *testing.T, store *disk.Store, key domain.CacheKey)
	}{
		{
			name: "flipped payload byte",
			mangle: func(t *testing.T, store *disk.Store, key domain.CacheKey) {
				path := recordPath(store, key)
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				data[len(data)-1] ^= 0xff
				require.NoError(t, os.WriteFile(path, data, domain.FilePerm))
			},
		},
		{
			name: "truncated payload",
			mangle: func(t *testing.T, store *disk.Store, key domain.CacheKey) {
				path := recordPath(store, key)
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				require.NoError(t, os.WriteFile(path, data[:len(data)-3], domain.FilePerm))
			},
		},
		{
			name: "truncated header",
			mangle: func(t *testing.T, store *disk.Store, key domain.CacheKey) {
				require.NoError(t, os.WriteFile(recordPath(store, key), []byte("MCR1\x01"), domain.FilePerm))
			},
		},
		{
			name: "garbage",
			mangle: func(t *testing.T, store *disk.Store, key domain.CacheKey) {
				require.NoError(t, os.WriteFile(recordPath(store, key), []byte("not a record at all"), domain.FilePerm))
			},
		},
		{
			name: "future format version",
			mangle: func(t *testing.T, store *disk.Store, key domain.CacheKey) {
				path := recordPath(store, key)
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				data[4] = 0xff // version follows the four magic bytes
				require.NoError(t, os.WriteFile(path, data, domain.FilePerm))
			},
		},
		{name: "negative uncompressed size", mangle: setHeaderInt64(disk.UncompressedSizeOffset, false, constant(-1))},
		{name: "huge uncompressed size", mangle: setHeaderInt64(disk.UncompressedSizeOffset, false, constant(1<<62))},
		{name: "uncompressed size off by one", mangle: setHeaderInt64(disk.UncompressedSizeOffset, false, plusOne)},
		{name: "resealed uncompressed size off by one", mangle: setHeaderInt64(disk.UncompressedSizeOffset, true, plusOne)},
		{name: "resealed large uncompressed size", mangle: setHeaderInt64(disk.UncompressedSizeOffset, true, constant(1<<39))},
		{name: "negative compressed size", mangle: setHeaderInt64(disk.CompressedSizeOffset, false, constant(-1))},
		{name: "huge compressed size", mangle: setHeaderInt64(disk.CompressedSizeOffset, false, constant(1<<62))},
		{name: "compressed size off by one", mangle: setHeaderInt64(disk.CompressedSizeOffset, false, plusOne)},
		{name: "resealed compressed size off by one", mangle: setHeaderInt64(disk.CompressedSizeOffset, true, plusOne)},
		{name: "stored checksum changed", mangle: setHeaderInt64(disk.ChecksumOffset, false, plusOne)},
		{name: "written time changed", mangle: setHeaderInt64(disk.WrittenAtOffset, false, plusOne)},
		{
			name: "unknown compression",
			mangle: func(t *testing.T, store *disk.Store, key domain.CacheKey) {
				editRecord(t, store, key, false, func(data []byte) { data[disk.CompressionOffset] = 0x7f })
			},
		},
		{
			name: "zstd payload claimed as uncompressed",
			mangle: func(t *testing.T, store *disk.Store, key domain.CacheKey) {
				editRecord(t, store, key, true, func(data []byte) {
					data[disk.CompressionOffset] = byte(domain.CompressionNone)
				})
			},
		},
		{
			name: "record of another key",
			mangle: func(t *testing.T, store *disk.Store, key domain.CacheKey) {
				other := key
				other.ModTime++
				_, err := store.Write(other, testFormat, []byte("other"))
				require.NoError(t, err)
				require.NoError(t, os.Rename(recordPath(store, other), recordPath(store, key)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newStore(t)
			key := testKey("net.xml")
			_, err := store.Write(key, testFormat, []byte(strings.Repeat("lane ", 64)))
			require.NoError(t, err)

			tt.mangle(t, store, key)

			var res domain.ReadResult
			require.NotPanics(t, func() { res = store.Read(key) })
			assert.Equal(t, domain.ReadCorrupt, res.Status)
			assert.Nil(t, res.Record)
			assert.Error(t, res.Reason)
		})
	}
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	for i := range 5 {
		_, err := store.Write(testKey(fmt.Sprintf("m%d", i)), testFormat, []byte("x"))
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	for _, e := range entries {
		assert.True(t, strings.HasSuffix(e.Name(), domain.RecordExt), e.Name())

		info, err := e.Info()
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(domain.FilePerm), info.Mode().Perm())
	}
}

func TestStore_ConcurrentWritersSameKey(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	key := testKey("shared.xml")

	const writers = 8
	payloads := make([][]byte, writers)
	for i := range payloads {
		payloads[i] = bytes.Repeat([]byte{byte('a' + i)}, 4096)
	}

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(p []byte) {
			defer wg.Done()
			_, err := store.Write(key, testFormat, p)
			assert.NoError(t, err)
		}(payloads[i])
	}

	// Readers racing the writers see either nothing or a complete record.
	for range 50 {
		res := store.Read(key)
		assert.NotEqual(t, domain.ReadCorrupt, res.Status, "reason: %v", res.Reason)
	}
	wg.Wait()

	res := store.Read(key)
	require.Equal(t, domain.ReadValid, res.Status)
	assert.Contains(t, payloads, res.Record.Payload)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	key := testKey("net.xml")
	_, err := store.Write(key, testFormat, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(key))
	assert.Equal(t, domain.ReadMiss, store.Read(key).Status)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(key))
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	key := testKey("net.xml")
	_, err := store.Write(key, testFormat, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(domain.RecordFileName(key)))
	assert.Equal(t, domain.ReadMiss, store.Read(key).Status)

	for _, name := range []string{"", "../escape.mcr", "sub/dir.mcr"} {
		assert.Error(t, store.Remove(name), name)
	}
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	keys := map[string]domain.CacheKey{}
	for i := range 3 {
		key := testKey(fmt.Sprintf("m%d.xml", i))
		keys[domain.RecordFileName(key)] = key
		_, err := store.Write(key, testFormat, []byte(strings.Repeat("x", 100*(i+1))))
		require.NoError(t, err)
	}

	dir := store.Dir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.v2.mcr"), []byte("junk"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("ignored"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-123"), []byte("partial"), domain.FilePerm))

	var valid, broken []string
	for info, err := range store.List() {
		if err != nil {
			broken = append(broken, info.FileName)
			continue
		}
		valid = append(valid, info.FileName)
		assert.Equal(t, keys[info.FileName], info.Header.Key)
		assert.Positive(t, info.FileSize)
	}

	assert.Len(t, valid, 3)
	assert.Equal(t, []string{"broken.v2.mcr"}, broken)
}

func TestStore_ListReportsImplausibleSizes(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	key := testKey("net.xml")
	_, err := store.Write(key, testFormat, []byte("lanes"))
	require.NoError(t, err)
	setHeaderInt64(disk.UncompressedSizeOffset, false, constant(-1))(t, store, key)

	var errs []error
	for info, err := range store.List() {
		assert.Equal(t, domain.RecordFileName(key), info.FileName)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrCorruptRecord)
}

func TestStore_ChecksumCoversHeader(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	a, err := store.Write(testKey("a.xml"), testFormat, []byte("same payload"))
	require.NoError(t, err)
	b, err := store.Write(testKey("b.xml"), testFormat, []byte("same payload"))
	require.NoError(t, err)

	assert.Equal(t, a.CompressedSize, b.CompressedSize)
	assert.NotEqual(t, a.Checksum, b.Checksum)
}

func TestStore_ListStopsEarly(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	for i := range 4 {
		_, err := store.Write(testKey(fmt.Sprintf("m%d", i)), testFormat, []byte("x"))
		require.NoError(t, err)
	}

	seen := 0
	for range store.List() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestStore_ListMissingDirectory(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	require.NoError(t, os.RemoveAll(store.Dir()))

	for _, err := range store.List() {
		t.Fatalf("unexpected entry: %v", err)
	}
}

func TestStore_SweepTemp(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	dir := store.Dir()

	stale := filepath.Join(dir, ".tmp-stale")
	fresh := filepath.Join(dir, ".tmp-fresh")
	require.NoError(t, os.WriteFile(stale, []byte("x"), domain.FilePerm))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), domain.FilePerm))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	removed, err := store.SweepTemp(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestStore_WrittenAtUsesClock(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return at })

	header, err := store.Write(testKey("a"), testFormat, []byte("x"))
	require.NoError(t, err)
	assert.True(t, at.Equal(header.WrittenAt))

	for info, err := range store.List() {
		require.NoError(t, err)
		assert.True(t, at.Equal(info.Header.WrittenAt))
	}
}
