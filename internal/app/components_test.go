package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modelcache/internal/app"
	"go.trai.ch/modelcache/internal/core/domain"
	_ "go.trai.ch/modelcache/internal/wiring" // Register providers
)

func TestAppWiring(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(domain.ConfigEnvVar, "")
	t.Setenv("NO_COLOR", "1")
	require.NoError(t, os.WriteFile(domain.ConfigFileName, []byte("cache_dir: records\n"), 0o600))

	components, _, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)

	var out bytes.Buffer
	require.NoError(t, components.App.WithOutput(&out).Stats(t.Context()))
	assert.Contains(t, out.String(), "Disk cache "+filepath.Join(dir, "records"))
	assert.Contains(t, out.String(), "Records     0")
	assert.DirExists(t, filepath.Join(dir, "records"))
}
