//go:build !linux

package render

// ApplyWindowHints is a no-op on non-Linux platforms. Ebiten's floating
// window and SkipTaskbar options cover what those platforms support.
func ApplyWindowHints(h WindowHints) error {
	return nil
}

// CloseWindowHints is a no-op on non-Linux platforms.
func CloseWindowHints() {
}
