package sharpen

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/ajroetker/go-stencil/stencil/contrib/image"
)

// Kernel holds 3x3 stencil weights indexed [row][column].
type Kernel [3][3]float32

// HighPass is the sharpening kernel. Its weights sum to zero.
var HighPass = Kernel{
	{-1, -2, -1},
	{-2, 12, -2},
	{-1, -2, -1},
}

// IsZero reports whether every weight is zero.
func (k Kernel) IsZero() bool {
	return k == Kernel{}
}

// TileMode selects how image sizes that are not tile multiples are handled.
type TileMode int

const (
	// TileTruncate processes only the pixels covered by whole tiles.
	TileTruncate TileMode = iota

	// TileReject fails with ErrPartialTile.
	TileReject

	// TileCover processes partial tiles at the right and bottom edges.
	TileCover
)

func (m TileMode) String() string {
	switch m {
	case TileTruncate:
		return "truncate"
	case TileReject:
		return "reject"
	case TileCover:
		return "cover"
	default:
		return "unknown"
	}
}

// ParseTileMode parses a name returned by TileMode.String.
func ParseTileMode(s string) (TileMode, error) {
	for _, m := range []TileMode{TileTruncate, TileReject, TileCover} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: tile mode %q", ErrInvalidMode, s)
}

// BorderMode selects what happens to destination pixels a pass does not
// update.
type BorderMode int

const (
	// BorderKeep leaves them as they were in dst.
	BorderKeep BorderMode = iota

	// BorderCopy copies them from src.
	BorderCopy
)

func (m BorderMode) String() string {
	switch m {
	case BorderKeep:
		return "keep"
	case BorderCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// ParseBorderMode parses a name returned by BorderMode.String.
func ParseBorderMode(s string) (BorderMode, error) {
	for _, m := range []BorderMode{BorderKeep, BorderCopy} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: border mode %q", ErrInvalidMode, s)
}

// Tiling is the work decomposition of a pass. Height counts rows and
// Width counts columns.
type Tiling struct {
	Width  int
	Height int
	Mode   TileMode
}

// DefaultTiling is 32x32 tiles with truncation.
var DefaultTiling = Tiling{Width: 32, Height: 32, Mode: TileTruncate}

// Grid returns the tile grid for a width x height image and the region it
// covers.
func (t Tiling) Grid(width, height int) (cols, rows int, covered image.Rect, err error) {
	if t.Width <= 0 || t.Height <= 0 {
		return 0, 0, image.Rect{}, fmt.Errorf("%w: %dx%d", ErrInvalidTile, t.Width, t.Height)
	}
	switch t.Mode {
	case TileTruncate:
		cols, rows = width/t.Width, height/t.Height
		return cols, rows, image.Rect{X1: cols * t.Width, Y1: rows * t.Height}, nil
	case TileReject:
		if width%t.Width != 0 || height%t.Height != 0 {
			return 0, 0, image.Rect{}, fmt.Errorf("%w: %dx%d image, %dx%d tiles",
				ErrPartialTile, width, height, t.Width, t.Height)
		}
		cols, rows = width/t.Width, height/t.Height
	case TileCover:
		cols = (width + t.Width - 1) / t.Width
		rows = (height + t.Height - 1) / t.Height
	default:
		return 0, 0, image.Rect{}, fmt.Errorf("%w: tile mode %d", ErrInvalidMode, int(t.Mode))
	}
	return cols, rows, image.Rect{X1: width, Y1: height}, nil
}

// Options configures a pass.
type Options struct {
	// Epsilon scales the high-pass response.
	Epsilon float32

	// Kernel holds the stencil weights. The zero value means HighPass.
	Kernel Kernel

	Tiling Tiling
	Border BorderMode
}

// DefaultEpsilon is the sharpening strength used by DefaultOptions.
const DefaultEpsilon = 0.005

// DefaultOptions returns epsilon 0.005, the HighPass kernel, DefaultTiling
// and BorderKeep.
func DefaultOptions() Options {
	return Options{
		Epsilon: DefaultEpsilon,
		Kernel:  HighPass,
		Tiling:  DefaultTiling,
		Border:  BorderKeep,
	}
}

// Validate checks the options without looking at any image.
func (o Options) Validate() error {
	if math32.IsNaN(o.Epsilon) || math32.IsInf(o.Epsilon, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidEpsilon, o.Epsilon)
	}
	if o.Tiling.Width <= 0 || o.Tiling.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTile, o.Tiling.Width, o.Tiling.Height)
	}
	if o.Tiling.Mode < TileTruncate || o.Tiling.Mode > TileCover {
		return fmt.Errorf("%w: tile mode %d", ErrInvalidMode, int(o.Tiling.Mode))
	}
	if o.Border != BorderKeep && o.Border != BorderCopy {
		return fmt.Errorf("%w: border mode %d", ErrInvalidMode, int(o.Border))
	}
	return nil
}

// Region returns the pixels of a width x height image a pass updates: the
// interior intersected with the tile coverage.
func (o Options) Region(width, height int) (image.Rect, error) {
	_, _, covered, err := o.Tiling.Grid(width, height)
	if err != nil {
		return image.Rect{}, err
	}
	interior := image.Rect{X1: width, Y1: height}.Inset(1)
	return interior.Intersect(covered), nil
}

func (o Options) kernel() Kernel {
	if o.Kernel.IsZero() {
		return HighPass
	}
	return o.Kernel
}
