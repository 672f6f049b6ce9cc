package sharpen

import "errors"

var (
	ErrAliased        = errors.New("sharpen: source and destination are the same image")
	ErrSizeMismatch   = errors.New("sharpen: source and destination sizes differ")
	ErrPartialTile    = errors.New("sharpen: image size is not a multiple of the tile size")
	ErrInvalidTile    = errors.New("sharpen: invalid tile size")
	ErrInvalidEpsilon = errors.New("sharpen: epsilon must be finite")
	ErrInvalidMode    = errors.New("sharpen: invalid mode")
	ErrEmptyRegion    = errors.New("sharpen: no pixel is updated")
)
