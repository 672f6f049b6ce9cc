package image

import "errors"

var (
	ErrInvalidSize  = errors.New("image: invalid image size")
	ErrSizeMismatch = errors.New("image: image sizes differ")
	ErrEmptyImage   = errors.New("image: empty image")
)
