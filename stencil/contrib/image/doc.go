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

// Package image provides the single-channel float buffers the stencil
// passes operate on.
//
// Image[T] stores height x width pixels in one row-major slice. Values are
// nominally in [0, 1]. DoubleBuffer[T] holds a current/next pair whose roles
// are exchanged by flipping an index, never by copying.
//
// # Point Operations
//
//	ClampImage(img, out, minVal, maxVal) // clamp to range
//
// # Conversion
//
// FromImage reads the red channel of any image.Image; grayscale images
// stored as RGB have R=G=B. ToGray renders a buffer as 8-bit grayscale after
// clamping to [0, 1]. Load and Save wrap both around the registered codecs.
//
//	img, err := image.Load("in.png")
//	...
//	err = image.Save("out.png", img)
package image
