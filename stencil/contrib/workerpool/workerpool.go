// Copyright 2025 The go-stencil Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool for data-parallel
// stencil passes. The convergence loop launches one sharpen pass and two
// reductions per iteration, often thousands of iterations per image, so the
// workers are spawned once and reused instead of per pass.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for !done {
//	    pool.ParallelFor(height, func(start, end int) {
//	        sharpenRows(start, end)
//	    })
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned at creation and
// live until Close.
type Pool struct {
	numWorkers int
	workC      chan task
	closeOnce  sync.Once
	closed     atomic.Bool
}

type task struct {
	fn   func()
	done *batch
}

// batch tracks one ParallelFor call. The first panic raised by any chunk is
// kept and re-raised on the calling goroutine once every chunk has finished.
type batch struct {
	wg       sync.WaitGroup
	panicked atomic.Pointer[panicValue]
}

type panicValue struct {
	v any
}

func (b *batch) wait() {
	b.wg.Wait()
	if p := b.panicked.Load(); p != nil {
		panic(p.v)
	}
}

// New creates a pool with numWorkers workers.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan task, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.workC {
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	defer t.done.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			t.done.panicked.CompareAndSwap(nil, &panicValue{v: r})
		}
	}()
	t.fn()
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool. Pending work completes first.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each of them. Blocks until all ranges are done.
// A closed pool runs fn(0, n) on the caller.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	b := &batch{}
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		b.wg.Add(1)
		p.workC <- task{fn: func() { fn(start, end) }, done: b}
	}
	b.wait()
}

// ParallelForAtomic calls fn(i) for every i in [0, n), handing indices out
// through an atomic counter. Use it when items differ in cost, such as
// partial edge tiles. Blocks until all items are done.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 || p.closed.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	var next atomic.Int64
	b := &batch{}
	b.wg.Add(workers)
	for range workers {
		p.workC <- task{
			fn: func() {
				for {
					i := int(next.Add(1)) - 1
					if i >= n {
						return
					}
					fn(i)
				}
			},
			done: b,
		}
	}
	b.wait()
}
