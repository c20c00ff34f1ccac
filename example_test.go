package modelcache_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/modelcache"
)

type Graph struct {
	Edges []string
}

func parseGraph(_ context.Context, path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, err
	}
	return Graph{Edges: strings.Fields(string(data))}, nil
}

func Example() {
	dir, err := os.MkdirTemp("", "modelcache-example-*")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	src := filepath.Join(dir, "grid.net")
	if err := os.WriteFile(src, []byte("a-b b-c c-a"), 0o600); err != nil {
		panic(err)
	}

	cfg := modelcache.DefaultConfig()
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.MemoryBudget = 64 << 20

	cache, err := modelcache.Open[Graph](cfg, modelcache.JSON[Graph]())
	if err != nil {
		panic(err)
	}
	defer func() { _ = cache.Close() }()

	for range 3 {
		g, err := cache.GetOrLoad(context.Background(), src, parseGraph)
		if err != nil {
			panic(err)
		}
		fmt.Println(len(g.Edges), "edges")
	}

	stats := cache.Stats()
	fmt.Println("loads:", stats.LoaderInvocations, "memory hits:", stats.MemoryHits)
	// Output:
	// 3 edges
	// 3 edges
	// 3 edges
	// loads: 1 memory hits: 2
}
