package image

import (
	"fmt"
	stdimage "image"
	"image/png"
	"io"
	"os"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an encoded image from r and converts its red channel.
// It returns the decoded format name alongside the buffer.
func Decode(r io.Reader) (*Image[float32], string, error) {
	src, format, err := stdimage.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("image: decode: %w", err)
	}
	img, err := FromImage(src)
	if err != nil {
		return nil, format, err
	}
	return img, format, nil
}

// Load reads the image file at path.
func Load(path string) (*Image[float32], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Encode writes img to w as an 8-bit grayscale PNG clamped to [0, 1].
func Encode[T Float](w io.Writer, img *Image[T]) error {
	if img.Len() == 0 {
		return ErrEmptyImage
	}
	return png.Encode(w, ToGray(img))
}

// Save writes img to path as an 8-bit grayscale PNG clamped to [0, 1].
func Save[T Float](path string, img *Image[T]) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, img)
}
