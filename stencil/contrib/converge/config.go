package converge

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/ajroetker/go-stencil/stencil"
	"github.com/ajroetker/go-stencil/stencil/contrib/sharpen"
)

const (
	// DefaultThreshold is the variance growth factor that ends the loop.
	DefaultThreshold = 1.1

	// DefaultTileSize is the tile edge used for both dimensions.
	DefaultTileSize = 32

	// DefaultMaxIterations bounds the loop. Natural images at the default
	// epsilon converge within a few hundred iterations.
	DefaultMaxIterations = 100000
)

// Config holds every parameter of a sharpening run.
type Config struct {
	// Epsilon is the sharpening strength per pass.
	Epsilon float32

	// TileWidth and TileHeight size the work tiles of a pass.
	TileWidth  int
	TileHeight int

	// TileMode handles image sizes that are not tile multiples.
	TileMode sharpen.TileMode

	// Border handles pixels a pass does not update.
	Border sharpen.BorderMode

	// Threshold is the multiplier of the initial variance at which the
	// loop stops.
	Threshold float32

	// MaxIterations bounds the number of passes. 0 means unbounded, which
	// can loop forever on images whose variance never grows.
	MaxIterations int

	// Backend runs the passes. nil means stencil.Default(), created and
	// closed by the run.
	Backend stencil.Backend

	// Logger receives progress records. nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns epsilon 0.005, 32x32 truncating tiles, kept
// borders, threshold 1.1 and DefaultMaxIterations.
func DefaultConfig() Config {
	return Config{
		Epsilon:       sharpen.DefaultEpsilon,
		TileWidth:     DefaultTileSize,
		TileHeight:    DefaultTileSize,
		TileMode:      sharpen.TileTruncate,
		Border:        sharpen.BorderKeep,
		Threshold:     DefaultThreshold,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if err := c.sharpenOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if math32.IsNaN(c.Threshold) || math32.IsInf(c.Threshold, 0) || c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold %v must be finite and positive", ErrInvalidConfig, c.Threshold)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

func (c Config) sharpenOptions() sharpen.Options {
	return sharpen.Options{
		Epsilon: c.Epsilon,
		Kernel:  sharpen.HighPass,
		Tiling: sharpen.Tiling{
			Width:  c.TileWidth,
			Height: c.TileHeight,
			Mode:   c.TileMode,
		},
		Border: c.Border,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
