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

// Package sharpen implements one pass of 3x3 high-pass sharpening.
//
// Every interior pixel of the destination is set to
//
//	dst[i,j] = src[i,j] + epsilon * sum(k[di][dj] * src[i+di-1, j+dj-1])
//
// with the HighPass weights
//
//	-1 -2 -1
//	-2 12 -2
//	-1 -2 -1
//
// The weights sum to zero, so a constant image is a fixed point.
//
// # Tiles
//
// The pass is scheduled as a grid of Tiling.Width x Tiling.Height tiles,
// one backend work item per tile. When the image size is not a multiple of
// the tile size the TileMode decides: TileTruncate skips the pixels beyond
// the last whole tile, TileReject fails, TileCover processes partial tiles.
//
// # Borders
//
// Pixels the pass does not update (the one-pixel border, plus any region
// skipped by TileTruncate) are left untouched in dst under BorderKeep and
// copied from src under BorderCopy.
package sharpen
