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

package sharpen

import (
	"fmt"

	"github.com/ajroetker/go-stencil/stencil"
	"github.com/ajroetker/go-stencil/stencil/contrib/image"
)

// Apply runs one sharpening pass from src into dst on be.
//
// src is only read and dst is only written, so every pixel is independent.
// dst must be a distinct image of the same size. A nil backend runs inline.
func Apply(src, dst *image.Image[float32], opts Options, be stencil.Backend) error {
	if src == dst {
		return ErrAliased
	}
	if !image.SameSize(src, dst) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch,
			src.Width(), src.Height(), dst.Width(), dst.Height())
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if be == nil {
		be = stencil.Scalar
	}

	width, height := src.Width(), src.Height()
	cols, rows, covered, err := opts.Tiling.Grid(width, height)
	if err != nil {
		return err
	}
	region := src.Interior().Intersect(covered)

	if !region.IsEmpty() {
		w := newWeights(opts.kernel(), opts.Epsilon)
		tw, th := opts.Tiling.Width, opts.Tiling.Height
		be.ParallelForEach(cols*rows, func(t int) {
			tile := image.Rect{
				X0: (t % cols) * tw,
				Y0: (t / cols) * th,
			}
			tile.X1, tile.Y1 = tile.X0+tw, tile.Y0+th
			sharpenRect(src, dst, tile.Intersect(region), w)
		})
	}

	if opts.Border == BorderCopy {
		copyOutside(src, dst, region)
	}
	return nil
}

// weights holds the kernel both as scalars and as lane splats.
type weights struct {
	k    Kernel
	eps  float32
	kv   [3][3]stencil.Vec[float32]
	epsv stencil.Vec[float32]
}

func newWeights(k Kernel, eps float32) *weights {
	w := &weights{k: k, eps: eps, epsv: stencil.Set(eps)}
	for i := range 3 {
		for j := range 3 {
			w.kv[i][j] = stencil.Set(k[i][j])
		}
	}
	return w
}

// sharpenRow computes out[x0:x1] of one interior row. It is the lane kernel
// unless STENCIL_NO_SIMD is set.
var sharpenRow = sharpenRowLanes

func init() {
	if stencil.NoSimdEnv() {
		sharpenRow = sharpenRowScalar
	}
}

// sharpenRect updates dst over r, which must lie inside the interior.
func sharpenRect(src, dst *image.Image[float32], r image.Rect, w *weights) {
	if r.IsEmpty() {
		return
	}
	for y := r.Y0; y < r.Y1; y++ {
		sharpenRow(src.Row(y-1), src.Row(y), src.Row(y+1), dst.Row(y), r.X0, r.X1, w)
	}
}

// sharpenRowScalar is the reference row.
//
// Terms are accumulated column by column (left, center, right; top to
// bottom within a column) to match the reference summation order. Every
// product is rounded before it is added, so no term is fused.
func sharpenRowScalar(up, mid, down, out []float32, x0, x1 int, w *weights) {
	k, eps := &w.k, w.eps
	for x := x0; x < x1; x++ {
		acc := float32(k[0][0] * up[x-1])
		acc += float32(k[1][0] * mid[x-1])
		acc += float32(k[2][0] * down[x-1])
		acc += float32(k[0][1] * up[x])
		acc += float32(k[1][1] * mid[x])
		acc += float32(k[2][1] * down[x])
		acc += float32(k[0][2] * up[x+1])
		acc += float32(k[1][2] * mid[x+1])
		acc += float32(k[2][2] * down[x+1])
		out[x] = mid[x] + float32(eps*acc)
	}
}

// sharpenRowLanes computes MaxLanes pixels per step, one pixel per lane, in
// the same term order as sharpenRowScalar. The remainder runs scalar.
func sharpenRowLanes(up, mid, down, out []float32, x0, x1 int, w *weights) {
	kv := &w.kv
	stencil.ProcessWithTail[float32](x1-x0,
		func(off int) {
			x := x0 + off
			center := stencil.Load(mid[x:])
			acc := stencil.Mul(kv[0][0], stencil.Load(up[x-1:]))
			acc = stencil.Add(acc, stencil.Mul(kv[1][0], stencil.Load(mid[x-1:])))
			acc = stencil.Add(acc, stencil.Mul(kv[2][0], stencil.Load(down[x-1:])))
			acc = stencil.Add(acc, stencil.Mul(kv[0][1], stencil.Load(up[x:])))
			acc = stencil.Add(acc, stencil.Mul(kv[1][1], center))
			acc = stencil.Add(acc, stencil.Mul(kv[2][1], stencil.Load(down[x:])))
			acc = stencil.Add(acc, stencil.Mul(kv[0][2], stencil.Load(up[x+1:])))
			acc = stencil.Add(acc, stencil.Mul(kv[1][2], stencil.Load(mid[x+1:])))
			acc = stencil.Add(acc, stencil.Mul(kv[2][2], stencil.Load(down[x+1:])))
			stencil.Store(stencil.Add(center, stencil.Mul(w.epsv, acc)), out[x:])
		},
		func(off, count int) {
			sharpenRowScalar(up, mid, down, out, x0+off, x0+off+count, w)
		},
	)
}

// copyOutside copies every pixel of src outside r into dst.
func copyOutside(src, dst *image.Image[float32], r image.Rect) {
	width, height := src.Width(), src.Height()
	if r.IsEmpty() {
		copy(dst.Pix(), src.Pix())
		return
	}
	for y := range height {
		s, d := src.Row(y), dst.Row(y)
		if y < r.Y0 || y >= r.Y1 {
			copy(d, s)
			continue
		}
		copy(d[:r.X0], s[:r.X0])
		copy(d[r.X1:width], s[r.X1:width])
	}
}

// Pixel evaluates the stencil at interior pixel (x, y) of src, without
// writing anything. It is the closed form Apply computes per pixel.
func Pixel(src *image.Image[float32], x, y int, k Kernel, eps float32) float32 {
	var acc float32
	for dx := range 3 {
		for dy := range 3 {
			acc += float32(k[dy][dx] * src.At(x+dx-1, y+dy-1))
		}
	}
	return src.At(x, y) + float32(eps*acc)
}
