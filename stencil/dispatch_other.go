//go:build !amd64 && !arm64

package stencil

func init() {
	currentName = "generic"
	currentWidth = 16
	currentLevel = defaultLevel()
}

// HasFMA reports whether the CPU has fused multiply-add. Unknown on this
// architecture, so it reports false.
func HasFMA() bool {
	return false
}
