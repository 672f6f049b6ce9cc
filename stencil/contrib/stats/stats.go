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

// Package stats computes the pixel mean and population variance of an
// image in single precision.
//
// Reduce runs on a stencil.Backend; MeanVariance is the direct
// single-goroutine pass. Both sum each row on its own and then add the row
// sums in row order, so they return bit-identical results for any backend
// and any worker count.
//
// The mean is accumulated relative to the first pixel. A constant image
// therefore has exactly that value as its mean and a variance of exactly 0.
//
//	s := stats.Reduce(img, be)
//	fmt.Printf("Mean = %f,  Variance = %f\n", s.Mean, s.Variance)
package stats

import (
	"fmt"

	"github.com/chewxy/math32"
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-stencil/stencil"
	"github.com/ajroetker/go-stencil/stencil/contrib/image"
)

// Stats holds the mean and population variance of a set of pixels.
type Stats struct {
	Mean     float32
	Variance float32
}

// StdDev returns the square root of the variance.
func (s Stats) StdDev() float32 {
	return math32.Sqrt(s.Variance)
}

// IsFinite reports whether both fields are finite.
func (s Stats) IsFinite() bool {
	return !math32.IsNaN(s.Mean) && !math32.IsInf(s.Mean, 0) &&
		!math32.IsNaN(s.Variance) && !math32.IsInf(s.Variance, 0)
}

func (s Stats) String() string {
	return fmt.Sprintf("Mean = %f,  Variance = %f", s.Mean, s.Variance)
}

// partial is one row's sum, padded so neighboring rows written by
// different workers do not share a cache line.
type partial struct {
	v float32
	_ cpu.CacheLinePad
}

// Mean returns the pixel mean, or 0 for an empty image.
func Mean(img *image.Image[float32], be stencil.Backend) float32 {
	if img.Len() == 0 {
		return 0
	}
	shift := img.Pix()[0]
	s := reduceRows(img, be, func(row []float32) float32 {
		return shiftedSum(row, shift)
	})
	return shift + s/float32(img.Len())
}

// Variance returns the mean squared deviation from mean.
func Variance(img *image.Image[float32], mean float32, be stencil.Backend) float32 {
	if img.Len() == 0 {
		return 0
	}
	ss := reduceRows(img, be, func(row []float32) float32 {
		return squaredDeviations(row, mean)
	})
	return ss / float32(img.Len())
}

// Reduce computes the mean, then the variance around it, on be.
// A nil backend runs inline.
func Reduce(img *image.Image[float32], be stencil.Backend) Stats {
	mean := Mean(img, be)
	return Stats{Mean: mean, Variance: Variance(img, mean, be)}
}

// MeanVariance computes the same result as Reduce in a direct pass.
func MeanVariance(img *image.Image[float32]) Stats {
	n := img.Len()
	if n == 0 {
		return Stats{}
	}
	shift := img.Pix()[0]
	var sum float32
	for y := range img.Height() {
		sum += shiftedSum(img.Row(y), shift)
	}
	mean := shift + sum/float32(n)

	var ss float32
	for y := range img.Height() {
		ss += squaredDeviations(img.Row(y), mean)
	}
	return Stats{Mean: mean, Variance: ss / float32(n)}
}

func reduceRows(img *image.Image[float32], be stencil.Backend, rowFn func([]float32) float32) float32 {
	height := img.Height()
	if height == 0 {
		return 0
	}
	if be == nil {
		be = stencil.Scalar
	}

	partials := make([]partial, height)
	be.ParallelFor(height, func(start, end int) {
		for y := start; y < end; y++ {
			partials[y].v = rowFn(img.Row(y))
		}
	})

	var total float32
	for i := range partials {
		total += partials[i].v
	}
	return total
}

func shiftedSum(row []float32, shift float32) float32 {
	var s float32
	for _, v := range row {
		s += v - shift
	}
	return s
}

func squaredDeviations(row []float32, mean float32) float32 {
	var s float32
	for _, v := range row {
		d := v - mean
		s += d * d
	}
	return s
}
