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

// Package stencil provides the parallel execution layer shared by the
// image stencil packages under stencil/contrib.
//
// Algorithms are written against the Backend capability: a blocking
// parallel-map over an index range. The same sharpen pass and the same
// reductions run unchanged on every backend:
//
//	Scalar             - inline on the calling goroutine
//	NewPoolBackend(n)  - persistent workerpool.Pool workers
//	NewGroupBackend(n) - errgroup goroutines bounded by SetLimit
//
// # Dispatch
//
// At init the package inspects the CPU with golang.org/x/sys/cpu and picks a
// default level. The pool level is used whenever more than one CPU is
// available. Set STENCIL_NO_PARALLEL=1 to force the scalar backend, which is
// useful for debugging and for reproducing single-threaded timings:
//
//	be := stencil.Default()
//	defer be.Close()
//	fmt.Println(stencil.CurrentName(), be.Name(), be.Workers())
//
// # Vectors
//
// Vec[T] is a portable lane vector sized by the detected register width
// (CurrentWidth). Kernels process MaxLanes pixels per step with Load, Mul,
// Add and Store, and finish each row with a scalar tail via ProcessWithTail.
// Lane results match the scalar code bit for bit. Set STENCIL_NO_SIMD=1 to
// make kernels use their scalar rows only.
package stencil
