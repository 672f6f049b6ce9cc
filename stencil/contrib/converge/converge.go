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

// Package converge repeats sharpening passes until the image variance
// grows past a multiple of its initial value.
//
// Each iteration sharpens the current buffer into the next one, reduces
// the next buffer to its mean and variance, and swaps the buffer roles.
// The loop stops once the variance reaches Threshold times the initial
// variance, which is fixed when the loop starts:
//
//	res, err := converge.Run(ctx, img, converge.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Iterations, res.Final)
//
// Loop exposes the same state machine one iteration at a time.
package converge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ajroetker/go-stencil/stencil"
	"github.com/ajroetker/go-stencil/stencil/contrib/image"
	"github.com/ajroetker/go-stencil/stencil/contrib/sharpen"
	"github.com/ajroetker/go-stencil/stencil/contrib/stats"
)

// State is the loop state.
type State int

const (
	// Running means the variance is still below the threshold.
	Running State = iota

	// Converged means the variance reached the threshold.
	Converged

	// Stopped means the loop was ended early by its iteration bound, a
	// cancelled context, or a non-finite variance.
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Timings accumulates wall time per phase.
type Timings struct {
	Init    time.Duration // buffer allocation and copies
	MeanVar time.Duration // all reductions, including the initial one
	Sharpen time.Duration // all sharpening passes
}

// Total returns the sum of all phases.
func (t Timings) Total() time.Duration {
	return t.Init + t.MeanVar + t.Sharpen
}

// Result describes a finished or stopped run.
type Result struct {
	// Image holds the most recently written pixels. It is the loop's
	// current buffer, not a copy.
	Image *image.Image[float32]

	Iterations int
	Initial    stats.Stats
	Final      stats.Stats

	// Threshold is the variance level that ends the loop.
	Threshold float32

	State   State
	Timings Timings
}

// Loop is the sharpening state machine.
type Loop struct {
	cfg       Config
	opts      sharpen.Options
	be        stencil.Backend
	ownsBE    bool
	log       *slog.Logger
	buf       *image.DoubleBuffer[float32]
	initial   stats.Stats
	last      stats.Stats
	threshold float32
	iters     int
	state     State
	timings   Timings
}

// NewLoop validates cfg, copies src into a double buffer and computes the
// initial statistics. src is not modified. The loop starts Converged when
// the initial variance already meets the threshold, as for a constant
// image.
func NewLoop(src *image.Image[float32], cfg Config) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil || src.Len() == 0 {
		return nil, fmt.Errorf("converge: %w", image.ErrEmptyImage)
	}
	opts := cfg.sharpenOptions()
	region, err := opts.Region(src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	if region.IsEmpty() {
		return nil, fmt.Errorf("%w: %dx%d image with %dx%d %s tiles", sharpen.ErrEmptyRegion,
			src.Width(), src.Height(), cfg.TileWidth, cfg.TileHeight, cfg.TileMode)
	}

	l := &Loop{
		cfg:  cfg,
		opts: opts,
		be:   cfg.Backend,
		log:  cfg.logger(),
	}
	if l.be == nil {
		l.be = stencil.Default()
		l.ownsBE = true
	}

	start := time.Now()
	l.buf = image.NewDoubleBuffer(src)
	l.timings.Init = time.Since(start)

	start = time.Now()
	l.initial = stats.Reduce(l.buf.Current(), l.be)
	l.timings.MeanVar = time.Since(start)
	l.last = l.initial
	l.threshold = cfg.Threshold * l.initial.Variance

	l.log.Info("sharpen start",
		"width", src.Width(), "height", src.Height(),
		"backend", l.be.Name(), "workers", l.be.Workers(),
		"mean", l.initial.Mean, "variance", l.initial.Variance,
		"threshold", l.threshold)

	switch {
	case !l.initial.IsFinite():
		l.state = Stopped
		l.Close()
		return nil, fmt.Errorf("%w: initial %v", ErrNonFinite, l.initial)
	case l.initial.Variance >= l.threshold:
		l.state = Converged
	}
	return l, nil
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Iterations returns the number of completed passes.
func (l *Loop) Iterations() int { return l.iters }

// Threshold returns the variance level that ends the loop.
func (l *Loop) Threshold() float32 { return l.threshold }

// Initial returns the statistics of the source image.
func (l *Loop) Initial() stats.Stats { return l.initial }

// Last returns the statistics of the current buffer.
func (l *Loop) Last() stats.Stats { return l.last }

// Current returns the buffer holding the most recently written pixels.
func (l *Loop) Current() *image.Image[float32] { return l.buf.Current() }

// Step runs one iteration: sharpen current into next, reduce next, swap.
// It returns the statistics of the new current buffer.
func (l *Loop) Step() (stats.Stats, error) {
	if l.state != Running {
		return l.last, fmt.Errorf("%w: %s", ErrFinished, l.state)
	}

	start := time.Now()
	if err := sharpen.Apply(l.buf.Current(), l.buf.Next(), l.opts, l.be); err != nil {
		l.state = Stopped
		return l.last, err
	}
	l.timings.Sharpen += time.Since(start)

	start = time.Now()
	s := stats.Reduce(l.buf.Next(), l.be)
	l.timings.MeanVar += time.Since(start)

	l.buf.Swap()
	l.iters++
	l.last = s
	l.log.Debug("iteration", "iter", l.iters, "mean", s.Mean, "variance", s.Variance)

	switch {
	case !s.IsFinite():
		l.state = Stopped
		return s, fmt.Errorf("%w: iteration %d: %v", ErrNonFinite, l.iters, s)
	case s.Variance >= l.threshold:
		l.state = Converged
	}
	return s, nil
}

// Stop ends a running loop without converging.
func (l *Loop) Stop() {
	if l.state == Running {
		l.state = Stopped
	}
}

// Result snapshots the loop. Result.Image is shared with the loop.
func (l *Loop) Result() *Result {
	return &Result{
		Image:      l.buf.Current(),
		Iterations: l.iters,
		Initial:    l.initial,
		Final:      l.last,
		Threshold:  l.threshold,
		State:      l.state,
		Timings:    l.timings,
	}
}

// Close releases the backend if the loop created it.
func (l *Loop) Close() error {
	if l.ownsBE {
		l.ownsBE = false
		return l.be.Close()
	}
	return nil
}

// Run drives a Loop until it converges.
//
// On ErrNotConverged, ErrNonFinite or a cancelled ctx the partial result
// is returned together with the error.
func Run(ctx context.Context, src *image.Image[float32], cfg Config) (*Result, error) {
	l, err := NewLoop(src, cfg)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	for l.State() == Running {
		if err := ctx.Err(); err != nil {
			l.Stop()
			return l.Result(), fmt.Errorf("converge: stopped after %d iterations: %w", l.iters, err)
		}
		if cfg.MaxIterations > 0 && l.iters >= cfg.MaxIterations {
			l.Stop()
			return l.Result(), fmt.Errorf("%w after %d iterations (variance %g, threshold %g)",
				ErrNotConverged, l.iters, l.last.Variance, l.threshold)
		}
		if _, err := l.Step(); err != nil {
			return l.Result(), err
		}
	}

	res := l.Result()
	l.log.Info("sharpen done",
		"state", res.State.String(), "iters", res.Iterations,
		"mean", res.Final.Mean, "variance", res.Final.Variance,
		"init", res.Timings.Init, "meanvar", res.Timings.MeanVar, "sharpen", res.Timings.Sharpen)
	return res, nil
}
