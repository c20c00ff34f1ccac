// Package warmer preloads source files through the cache with bounded parallelism.
package warmer

import (
	"context"
	"errors"
	"maps"
	"sync"

	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Status represents the state of one path in a warm run.
type Status string

const (
	// StatusPending indicates the path is waiting to be loaded.
	StatusPending Status = "Pending"
	// StatusRunning indicates the path is being fetched.
	StatusRunning Status = "Running"
	// StatusReady indicates the object is resident in the cache.
	StatusReady Status = "Ready"
	// StatusFailed indicates the fetch failed.
	StatusFailed Status = "Failed"
)

// Fetcher is the part of the cache manager the warmer drives.
type Fetcher interface {
	GetOrLoad(ctx context.Context, path string, loader ports.Loader) (any, error)
}

// Warmer fetches a set of paths so later requests are served from memory.
type Warmer struct {
	fetcher Fetcher
	loader  ports.Loader

	mu     sync.RWMutex
	status map[string]Status
}

// New creates a Warmer that fills misses with loader.
func New(fetcher Fetcher, loader ports.Loader) *Warmer {
	return &Warmer{
		fetcher: fetcher,
		loader:  loader,
		status:  make(map[string]Status),
	}
}

// Statuses returns a copy of the per-path status map of the last run.
func (w *Warmer) Statuses() map[string]Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return maps.Clone(w.status)
}

func (w *Warmer) setStatus(path string, status Status) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status[path] = status
}

// Run fetches every path with at most parallelism fetches in flight.
// Duplicate paths are fetched once. A failed path does not stop the others;
// all failures are joined into the returned error. Once ctx is done no new
// fetches start.
func (w *Warmer) Run(ctx context.Context, paths []string, parallelism int) error {
	state := w.newRunState(ctx, paths, max(parallelism, 1))

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil {
			// Drain fetches already started; pending paths stay pending.
			if state.active == 0 {
				return errors.Join(state.errs, state.ctx.Err())
			}
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	return state.errs
}

type result struct {
	path string
	err  error
}

type runState struct {
	ready       []string
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	parallelism int
	w           *Warmer
}

func (w *Warmer) newRunState(ctx context.Context, paths []string, parallelism int) *runState {
	w.mu.Lock()
	w.status = make(map[string]Status, len(paths))
	ready := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, seen := w.status[p]; seen {
			continue
		}
		w.status[p] = StatusPending
		ready = append(ready, p)
	}
	w.mu.Unlock()

	return &runState{
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		w:           w,
	}
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		path := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.w.setStatus(path, StatusRunning)

		go func(path string) {
			_, err := state.w.fetcher.GetOrLoad(state.ctx, path, state.w.loader)
			state.resultsCh <- result{path: path, err: err}
		}(path)
	}
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		wrappedErr := zerr.With(zerr.Wrap(res.err, "warm failed"), "path", res.path)
		state.errs = errors.Join(state.errs, wrappedErr)
		state.w.setStatus(res.path, StatusFailed)
		return
	}
	state.w.setStatus(res.path, StatusReady)
}
