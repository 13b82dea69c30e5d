//go:build !linux

package render

// DetectCompositor returns CompositorActive. Windows (DWM) and macOS always
// composite.
func DetectCompositor() CompositorStatus {
	return CompositorActive
}

// IsWayland returns false on non-Linux platforms.
func IsWayland() bool {
	return false
}

// CheckTransparencySupport always returns an empty string on non-Linux
// platforms.
func CheckTransparencySupport(transparent bool) string {
	return ""
}
