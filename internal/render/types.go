// Package render provides the Ebiten host for go-annotate: the overlay
// window, per-frame pointer and keyboard polling, and drawing of strokes,
// drafts and particles.
package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Config holds the overlay window options.
type Config struct {
	// Width and Height are the window size in pixels. Zero uses the size
	// of the monitor the window opens on.
	Width  int
	Height int
	// X and Y position the window. Ignored when both are zero.
	X int
	Y int
	// Title is the window title.
	Title string
	// Transparent enables a transparent framebuffer. Requires a compositor
	// on X11.
	Transparent bool
	// AlwaysOnTop keeps the overlay above other windows.
	AlwaysOnTop bool
	// SkipTaskbar hides the window from taskbars and pagers.
	SkipTaskbar bool
	// TPS is the number of Update calls per second, which is also the
	// particle simulation rate.
	TPS int
}

// DefaultConfig returns a full-screen transparent overlay configuration.
func DefaultConfig() Config {
	return Config{
		Title:       "go-annotate",
		Transparent: true,
		AlwaysOnTop: true,
		SkipTaskbar: true,
		TPS:         ebiten.DefaultTPS,
	}
}

// Validate checks the configuration for impossible values.
func (c Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	if c.Height < 0 {
		return fmt.Errorf("height must not be negative, got %d", c.Height)
	}
	if c.TPS < 0 {
		return fmt.Errorf("tps must not be negative, got %d", c.TPS)
	}
	return nil
}
