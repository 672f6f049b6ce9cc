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

import "unsafe"

// This file provides portable lane-parallel operations in pure Go. The lane
// count follows the register width detected at init (see CurrentWidth), so a
// loop over MaxLanes-sized chunks matches the vector shape of the target.
//
// Every operation rounds each lane to T. Products are never fused into a
// following addition, so a lane computes exactly what the equivalent scalar
// expression with explicit float32(...) conversions computes.

// Floats is a constraint for the lane types of Vec.
type Floats interface {
	~float32 | ~float64
}

// maxVecBytes is the widest register width a target reports (AVX-512).
const maxVecBytes = 64

// Vec is a fixed-capacity vector of up to MaxLanes[T]() lanes.
//
// Vec is a value type and never allocates. Create one with Load or Set.
type Vec[T Floats] struct {
	lanes [maxVecBytes / 4]T
	n     int
}

// NumLanes returns the number of active lanes.
func (v Vec[T]) NumLanes() int {
	return v.n
}

// MaxLanes returns the number of T lanes in one register of the current
// width. For example with AVX2 (32 bytes): 8 float32 or 4 float64 lanes.
func MaxLanes[T Floats]() int {
	var zero T
	return currentWidth / int(unsafe.Sizeof(zero))
}

// Load creates a vector from the first MaxLanes elements of src. A shorter
// src yields a vector with fewer lanes.
func Load[T Floats](src []T) Vec[T] {
	v := Vec[T]{n: min(len(src), MaxLanes[T]())}
	copy(v.lanes[:v.n], src)
	return v
}

// Store writes the lanes of v to dst, stopping early if dst is shorter.
func Store[T Floats](v Vec[T], dst []T) {
	n := min(len(dst), v.n)
	copy(dst[:n], v.lanes[:n])
}

// Set creates a vector with all lanes set to value.
func Set[T Floats](value T) Vec[T] {
	v := Vec[T]{n: MaxLanes[T]()}
	for i := range v.n {
		v.lanes[i] = value
	}
	return v
}

// Add performs lane-wise addition over the lanes both vectors have.
func Add[T Floats](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.lanes[i] = T(a.lanes[i] + b.lanes[i])
	}
	return r
}

// Mul performs lane-wise multiplication over the lanes both vectors have.
func Mul[T Floats](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.lanes[i] = T(a.lanes[i] * b.lanes[i])
	}
	return r
}

// ProcessWithTail calls fullFn(offset) for each full MaxLanes[T]() chunk of
// [0, size) and then tailFn(offset, count) once for the remainder, if any.
//
//	stencil.ProcessWithTail[float32](len(dst),
//	    func(off int) {
//	        stencil.Store(stencil.Add(stencil.Load(a[off:]), stencil.Load(b[off:])), dst[off:])
//	    },
//	    func(off, count int) {
//	        for i := off; i < off+count; i++ {
//	            dst[i] = a[i] + b[i]
//	        }
//	    },
//	)
func ProcessWithTail[T Floats](size int, fullFn func(offset int), tailFn func(offset, count int)) {
	lanes := MaxLanes[T]()
	full := size / lanes
	for i := range full {
		fullFn(i * lanes)
	}
	if rem := size % lanes; rem > 0 {
		tailFn(full*lanes, rem)
	}
}
