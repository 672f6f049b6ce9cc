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

package image

import (
	stdimage "image"
	"image/color"
	"math"
)

// FromImage converts the red channel of src to a float32 image in [0, 1].
// The result is indexed from (0, 0) regardless of src.Bounds().Min.
func FromImage(src stdimage.Image) (*Image[float32], error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	img := NewImage[float32](b.Dx(), b.Dy())

	switch s := src.(type) {
	case *stdimage.Gray:
		for y := range img.height {
			off := s.PixOffset(b.Min.X, b.Min.Y+y)
			row := img.Row(y)
			for x, v := range s.Pix[off : off+img.width] {
				row[x] = float32(v) / 255
			}
		}
	case *stdimage.NRGBA:
		for y := range img.height {
			off := s.PixOffset(b.Min.X, b.Min.Y+y)
			pix := s.Pix[off : off+4*img.width]
			row := img.Row(y)
			for x := range row {
				row[x] = float32(pix[4*x]) / 255
			}
		}
	case *stdimage.NRGBA64:
		for y := range img.height {
			off := s.PixOffset(b.Min.X, b.Min.Y+y)
			pix := s.Pix[off : off+8*img.width]
			row := img.Row(y)
			for x := range row {
				row[x] = float32(uint16(pix[8*x])<<8|uint16(pix[8*x+1])) / 0xffff
			}
		}
	default:
		// Straight (non-premultiplied) red, like the NRGBA paths above.
		for y := range img.height {
			row := img.Row(y)
			for x := range row {
				c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
				row[x] = float32(c.R) / 0xffff
			}
		}
	}
	return img, nil
}

// ToGray renders img as 8-bit grayscale. Values are clamped to [0, 1] with
// ClampImage and rounded to the nearest level; img is not modified.
func ToGray[T Float](img *Image[T]) *stdimage.Gray {
	clamped := NewImage[T](img.width, img.height)
	_ = ClampImage(img, clamped, 0, 1)

	out := stdimage.NewGray(stdimage.Rect(0, 0, img.width, img.height))
	for y := range img.height {
		dst := out.Pix[y*out.Stride : y*out.Stride+img.width]
		for x, v := range clamped.Row(y) {
			dst[x] = uint8(math.Round(float64(v) * 255))
		}
	}
	return out
}
