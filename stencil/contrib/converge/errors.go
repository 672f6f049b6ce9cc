package converge

import "errors"

var (
	ErrInvalidConfig = errors.New("converge: invalid config")
	ErrNotConverged  = errors.New("converge: variance did not reach the threshold")
	ErrNonFinite     = errors.New("converge: variance is not finite")
	ErrFinished      = errors.New("converge: loop is no longer running")
)
