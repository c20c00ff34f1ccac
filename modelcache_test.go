package modelcache_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/modelcache"
	"go.trai.ch/modelcache/internal/adapters/telemetry"
	"google.golang.org/protobuf/types/known/structpb"
)

type Network struct {
	Name  string
	Nodes []string
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(t *testing.T) modelcache.Config {
	t.Helper()
	cfg := modelcache.DefaultConfig()
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
	return cfg
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.MemoryBudget = -1

	_, err := modelcache.Open[Network](cfg, modelcache.JSON[Network]())
	require.ErrorIs(t, err, modelcache.ErrInvalidConfig)
}

func TestOpen_UnwritableCacheDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cfg := testConfig(t)
	cfg.CacheDir = filepath.Join(blocker, "cache")

	_, err := modelcache.Open[Network](cfg, modelcache.JSON[Network]())
	require.ErrorIs(t, err, modelcache.ErrCacheDirCreateFailed)
}

func TestCache_GetOrLoad(t *testing.T) {
	cfg := testConfig(t)
	src := writeSource(t, "a b c")

	var calls atomic.Int32
	parse := func(_ context.Context, path string) (Network, error) {
		calls.Add(1)
		return Network{Name: filepath.Base(path), Nodes: []string{"a", "b", "c"}}, nil
	}

	cache, err := modelcache.Open[Network](cfg, modelcache.JSON[Network]())
	require.NoError(t, err)

	got, err := cache.GetOrLoad(t.Context(), src, parse)
	require.NoError(t, err)
	assert.Equal(t, Network{Name: "net.xml", Nodes: []string{"a", "b", "c"}}, got)

	_, err = cache.GetOrLoad(t.Context(), src, parse)
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	// A second process with the same directory reads the record back.
	reopened, err := modelcache.Open[Network](cfg, modelcache.JSON[Network]())
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err = reopened.GetOrLoad(t.Context(), src, parse)
	require.NoError(t, err)
	assert.Equal(t, "net.xml", got.Name)
	assert.Equal(t, int32(1), calls.Load())

	stats := reopened.Stats()
	assert.Equal(t, uint64(1), stats.DiskHits)
	assert.InDelta(t, 1.0, stats.HitRatio(), 0.0001)
}

func TestCache_LoaderErrorIsReturnedAsIs(t *testing.T) {
	cache, err := modelcache.Open[Network](testConfig(t), modelcache.JSON[Network]())
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	errSyntax := errors.New("line 3: unexpected token")
	_, err = cache.GetOrLoad(t.Context(), writeSource(t, "?"), func(context.Context, string) (Network, error) {
		return Network{}, errSyntax
	})

	assert.Same(t, errSyntax, err)
}

func TestCache_MissingSource(t *testing.T) {
	cache, err := modelcache.Open[Network](testConfig(t), modelcache.JSON[Network]())
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	_, err = cache.GetOrLoad(t.Context(), filepath.Join(t.TempDir(), "gone.xml"), func(context.Context, string) (Network, error) {
		t.Fatal("loader must not run for a missing source")
		return Network{}, nil
	})

	require.ErrorIs(t, err, modelcache.ErrSourceNotFound)
}

func TestCache_SerializerTypeMismatch(t *testing.T) {
	cfg := testConfig(t)
	src := writeSource(t, "x")

	writer, err := modelcache.Open[Network](cfg, modelcache.JSON[Network]())
	require.NoError(t, err)
	_, err = writer.GetOrLoad(t.Context(), src, func(context.Context, string) (Network, error) {
		return Network{Name: "x"}, nil
	})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	// Same format tag, different Go type: the record decodes into a map.
	reader, err := modelcache.Open[Network](cfg, modelcache.JSON[map[string]any]())
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	_, err = reader.GetOrLoad(t.Context(), src, func(context.Context, string) (Network, error) {
		return Network{Name: "x"}, nil
	})
	require.ErrorIs(t, err, modelcache.ErrUnexpectedType)
}

func TestCache_SchemaVersionInvalidatesRecords(t *testing.T) {
	cfg := testConfig(t)
	src := writeSource(t, "x")
	var calls atomic.Int32
	parse := func(context.Context, string) (Network, error) {
		calls.Add(1)
		return Network{Name: "x"}, nil
	}

	v1, err := modelcache.Open[Network](cfg, modelcache.YAML[Network]())
	require.NoError(t, err)
	_, err = v1.GetOrLoad(t.Context(), src, parse)
	require.NoError(t, err)
	require.NoError(t, v1.Close())

	v2, err := modelcache.Open[Network](cfg, modelcache.YAML[Network](modelcache.WithSchemaVersion(2)))
	require.NoError(t, err)
	defer func() { _ = v2.Close() }()
	_, err = v2.GetOrLoad(t.Context(), src, parse)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, uint64(1), v2.Stats().DiskCorrupt)
}

func TestCache_Proto(t *testing.T) {
	cfg := testConfig(t)
	src := writeSource(t, "x")
	parse := func(context.Context, string) (*structpb.Struct, error) {
		return structpb.NewStruct(map[string]any{"nodes": 3.0})
	}

	first, err := modelcache.Open[*structpb.Struct](cfg, modelcache.Proto[*structpb.Struct]())
	require.NoError(t, err)
	_, err = first.GetOrLoad(t.Context(), src, parse)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := modelcache.Open[*structpb.Struct](cfg, modelcache.Proto[*structpb.Struct]())
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	got, err := second.GetOrLoad(t.Context(), src, func(context.Context, string) (*structpb.Struct, error) {
		t.Fatal("record should be served from disk")
		return nil, nil
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.GetFields()["nodes"].GetNumberValue(), 0)
}

func TestCache_CleanupAndClearAll(t *testing.T) {
	cache, err := modelcache.Open[Network](testConfig(t), modelcache.JSON[Network]())
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	for _, name := range []string{"a", "b"} {
		_, err = cache.GetOrLoad(t.Context(), writeSource(t, name), func(context.Context, string) (Network, error) {
			return Network{Name: name}, nil
		})
		require.NoError(t, err)
	}

	usage, err := cache.DiskUsage(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, usage.Records)
	assert.Equal(t, usage.Bytes, cache.Stats().BytesOnDisk)

	var budget int64
	report, err := cache.Cleanup(t.Context(), modelcache.CleanupPolicy{MaxTotalBytes: &budget})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Removed)
	assert.Equal(t, 2, cache.Stats().EntriesResident)
	assert.Zero(t, cache.Stats().BytesOnDisk)

	require.NoError(t, cache.ClearAll(t.Context()))
	assert.Equal(t, modelcache.Statistics{}, cache.Stats())
}

func TestCache_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	cache, err := modelcache.Open[Network](testConfig(t), modelcache.JSON[Network](),
		modelcache.WithTracer(telemetry.NewOTelTracerWithProvider(provider, "test")))
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	_, err = cache.GetOrLoad(t.Context(), writeSource(t, "x"), func(context.Context, string) (Network, error) {
		return Network{Name: "x"}, nil
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "modelcache.get_or_load", spans[0].Name())

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "loader", attrs["cache.tier"])
	assert.NotEmpty(t, attrs["cache.key"])
}

func TestCache_Warm(t *testing.T) {
	cache, err := modelcache.Open[Network](testConfig(t), modelcache.JSON[Network]())
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	a, b := writeSource(t, "a"), writeSource(t, "b")
	var calls atomic.Int32
	parse := func(_ context.Context, path string) (Network, error) {
		calls.Add(1)
		return Network{Name: path}, nil
	}

	require.NoError(t, cache.Warm(t.Context(), []string{a, b, a}, parse, 4))
	assert.Equal(t, int32(2), calls.Load())

	got, err := cache.GetOrLoad(t.Context(), b, parse)
	require.NoError(t, err)
	assert.Equal(t, b, got.Name)
	assert.Equal(t, uint64(1), cache.Stats().MemoryHits)

	err = cache.Warm(t.Context(), []string{filepath.Join(t.TempDir(), "gone.xml")}, parse, 1)
	require.ErrorIs(t, err, modelcache.ErrSourceNotFound)
}
