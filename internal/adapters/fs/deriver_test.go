package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modelcache/internal/adapters/fs"
	"go.trai.ch/modelcache/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestKeyDeriver_Derive_Stable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "network.xml")
	writeFile(t, path, "<network/>")

	d := fs.NewKeyDeriver()
	k1, err := d.Derive(path)
	require.NoError(t, err)
	k2, err := d.Derive(path)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Equal(t, k1.Fingerprint(), k2.Fingerprint())
	assert.Equal(t, int64(len("<network/>")), k1.Size)
	assert.True(t, filepath.IsAbs(k1.Path))
}

func TestKeyDeriver_Derive_RelativePathIsAbsolutized(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "net.xml"), "x")
	t.Chdir(dir)

	d := fs.NewKeyDeriver()
	rel, err := d.Derive("net.xml")
	require.NoError(t, err)
	abs, err := d.Derive(filepath.Join(dir, "net.xml"))
	require.NoError(t, err)

	assert.Equal(t, abs, rel)
}

func TestKeyDeriver_Derive_ChangesWhenModified(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "network.xml")
	writeFile(t, path, "v1")

	d := fs.NewKeyDeriver()
	before, err := d.Derive(path)
	require.NoError(t, err)

	t.Run("size change", func(t *testing.T) {
		writeFile(t, path, "version-2")
		after, err := d.Derive(path)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
		assert.NotEqual(t, before.Fingerprint(), after.Fingerprint())
	})

	t.Run("mtime change only", func(t *testing.T) {
		current, err := d.Derive(path)
		require.NoError(t, err)

		later := time.Unix(0, current.ModTime).Add(3 * time.Second)
		require.NoError(t, os.Chtimes(path, later, later))

		after, err := d.Derive(path)
		require.NoError(t, err)
		assert.Equal(t, current.Size, after.Size)
		assert.NotEqual(t, current, after)
	})
}

func TestKeyDeriver_Derive_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d := fs.NewKeyDeriver()

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.xml")},
		{name: "directory", path: dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := d.Derive(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSourceNotFound)
		})
	}
}
