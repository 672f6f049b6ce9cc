package kalman

import (
	"errors"
	"fmt"
)

var (
	ErrDimension = errors.New("kalman: dimension mismatch")
	ErrSingular  = errors.New("kalman: matrix is singular")
)

func dimError(what string, got, want int) error {
	return fmt.Errorf("%w: %s is %d, want %d", ErrDimension, what, got, want)
}
