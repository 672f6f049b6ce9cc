//go:build arm64

package stencil

import "golang.org/x/sys/cpu"

func init() {
	// ASIMD is part of the ARMv8-A base architecture. The SVE vector length
	// is not exposed by x/sys/cpu, so lanes stay NEON sized.
	currentWidth = 16
	switch {
	case cpu.ARM64.HasSVE:
		currentName = "sve"
	case cpu.ARM64.HasASIMD:
		currentName = "neon"
	default:
		currentName = "generic"
	}
	currentLevel = defaultLevel()
}

// HasFMA reports whether the CPU has fused multiply-add.
// FMADD is always available on ARMv8.
func HasFMA() bool {
	return true
}
