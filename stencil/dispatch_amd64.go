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

//go:build amd64

package stencil

import "golang.org/x/sys/cpu"

func init() {
	switch {
	case cpu.X86.HasAVX512F:
		currentName, currentWidth = "avx512", 64
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		currentName, currentWidth = "avx2", 32
	case cpu.X86.HasSSE41:
		currentName, currentWidth = "sse4", 16
	default:
		currentName, currentWidth = "sse2", 16
	}
	currentLevel = defaultLevel()
}

// HasFMA reports whether the CPU has fused multiply-add. Kernels round
// every product explicitly, so their results do not depend on it.
func HasFMA() bool {
	return cpu.X86.HasFMA
}
