package stencil

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Level identifies a parallel backend kind.
type Level int

const (
	// LevelScalar runs every pass on the calling goroutine.
	LevelScalar Level = iota

	// LevelPool runs passes on a persistent worker pool.
	LevelPool

	// LevelGroup runs passes on errgroup goroutines spawned per call.
	LevelGroup
)

// String returns the backend name for the level.
func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelPool:
		return "pool"
	case LevelGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ParseLevel parses a backend name as returned by Level.String.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar", "serial":
		return LevelScalar, nil
	case "pool":
		return LevelPool, nil
	case "group", "errgroup":
		return LevelGroup, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// currentLevel is the default level for this process.
// Set by init() in dispatch_*.go files.
var currentLevel Level

// currentName names the CPU target detected at init, e.g. "avx2" or "neon".
// Set by init() in dispatch_*.go files.
var currentName string

// currentWidth is the vector register width in bytes detected at init.
// Set by init() in dispatch_*.go files.
var currentWidth int

// CurrentWidth returns the vector register width in bytes that sizes Vec.
// For example: 16 for SSE/NEON, 32 for AVX2, 64 for AVX-512.
func CurrentWidth() int {
	return currentWidth
}

// NoSimdEnv checks if the STENCIL_NO_SIMD environment variable is set.
// When set, kernels use their scalar rows instead of Vec lanes.
func NoSimdEnv() bool {
	return envBool("STENCIL_NO_SIMD")
}

// CurrentLevel returns the default backend level.
func CurrentLevel() Level {
	return currentLevel
}

// CurrentName returns a human-readable name for the detected CPU target.
func CurrentName() string {
	return currentName
}

// NoParallelEnv checks if the STENCIL_NO_PARALLEL environment variable is set.
// Any non-empty value counts as true unless it parses as a false bool.
func NoParallelEnv() bool {
	return envBool("STENCIL_NO_PARALLEL")
}

// envBool treats any non-empty value as true unless it parses as a false bool.
func envBool(name string) bool {
	val := os.Getenv(name)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// defaultLevel picks the level used by Default once the CPU target is known.
func defaultLevel() Level {
	if NoParallelEnv() || runtime.NumCPU() < 2 {
		return LevelScalar
	}
	return LevelPool
}

// NewBackend creates a backend of the given level. workers <= 0 means
// GOMAXPROCS. The caller owns the backend and must Close it.
func NewBackend(level Level, workers int) (Backend, error) {
	switch level {
	case LevelScalar:
		return Scalar, nil
	case LevelPool:
		return NewPoolBackend(workers), nil
	case LevelGroup:
		return NewGroupBackend(workers), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(level))
	}
}

// Default creates a backend of CurrentLevel sized to GOMAXPROCS.
// The caller must Close it.
func Default() Backend {
	be, err := NewBackend(currentLevel, 0)
	if err != nil {
		return Scalar
	}
	return be
}
