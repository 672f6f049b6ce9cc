package stencil

import "errors"

var (
	ErrUnknownLevel = errors.New("stencil: unknown backend level")
)
