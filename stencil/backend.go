// Copyright 2025 go-stencil Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stencil

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-stencil/stencil/contrib/workerpool"
)

// Backend is the parallel-map capability the stencil passes run on.
//
// Both methods block until every index has been processed, so a call is a
// full barrier. Callbacks must only write to memory owned by their indices.
type Backend interface {
	// Name returns the backend kind, e.g. "pool".
	Name() string

	// Workers returns the maximum number of concurrent callbacks.
	Workers() int

	// ParallelFor calls fn(start, end) over contiguous ranges covering [0, n).
	ParallelFor(n int, fn func(start, end int))

	// ParallelForEach calls fn(i) once for every i in [0, n).
	ParallelForEach(n int, fn func(i int))

	// Close releases backend resources. Safe to call more than once.
	Close() error
}

// Scalar is the single-goroutine backend.
var Scalar Backend = scalarBackend{}

type scalarBackend struct{}

func (scalarBackend) Name() string { return LevelScalar.String() }

func (scalarBackend) Workers() int { return 1 }

func (scalarBackend) ParallelFor(n int, fn func(start, end int)) {
	if n > 0 {
		fn(0, n)
	}
}

func (scalarBackend) ParallelForEach(n int, fn func(i int)) {
	for i := range n {
		fn(i)
	}
}

func (scalarBackend) Close() error { return nil }

// PoolBackend runs passes on a persistent worker pool.
type PoolBackend struct {
	pool *workerpool.Pool
}

// NewPoolBackend starts a pool of workers goroutines.
// If workers <= 0, uses GOMAXPROCS.
func NewPoolBackend(workers int) *PoolBackend {
	return &PoolBackend{pool: workerpool.New(workers)}
}

func (b *PoolBackend) Name() string { return LevelPool.String() }

func (b *PoolBackend) Workers() int { return b.pool.NumWorkers() }

func (b *PoolBackend) ParallelFor(n int, fn func(start, end int)) {
	b.pool.ParallelFor(n, fn)
}

// ParallelForEach uses atomic work distribution since per-index cost
// (for example a tile on the image edge) is not uniform.
func (b *PoolBackend) ParallelForEach(n int, fn func(i int)) {
	b.pool.ParallelForAtomic(n, fn)
}

// Close stops the pool workers. Later calls fall back to running inline.
func (b *PoolBackend) Close() error {
	b.pool.Close()
	return nil
}

// GroupBackend spawns goroutines per call through an errgroup.Group.
// It holds no long-lived resources.
type GroupBackend struct {
	workers int
}

// NewGroupBackend returns a backend allowing at most workers concurrent
// goroutines. If workers <= 0, uses GOMAXPROCS.
func NewGroupBackend(workers int) *GroupBackend {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &GroupBackend{workers: workers}
}

func (b *GroupBackend) Name() string { return LevelGroup.String() }

func (b *GroupBackend) Workers() int { return b.workers }

func (b *GroupBackend) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(b.workers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

func (b *GroupBackend) ParallelForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(b.workers)
	for i := range n {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (b *GroupBackend) Close() error { return nil }
