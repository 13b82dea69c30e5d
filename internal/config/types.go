// Package config provides configuration parsing for go-annotate.
// It reads modern Lua files (annotate.config = { ... }) and legacy
// "key value" files, expands environment variables, validates values and
// converts legacy files to Lua.
package config

import (
	"image/color"
	"time"

	"github.com/opd-ai/go-annotate/internal/particle"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// Config represents the complete go-annotate configuration.
type Config struct {
	// Window contains overlay window settings.
	Window WindowConfig
	// Ink contains tool and stroke settings.
	Ink InkConfig
	// Particles contains magic pen settings.
	Particles ParticleConfig
	// Export contains drawing export settings.
	Export ExportConfig
}

// WindowConfig holds overlay window options.
type WindowConfig struct {
	// Width and Height are the overlay size. Zero uses the monitor size.
	Width  int
	Height int
	// X and Y position the overlay.
	X int
	Y int
	// Title is the window title.
	Title string
	// Transparent requests a transparent framebuffer.
	Transparent bool
	// AlwaysOnTop keeps the overlay above other windows.
	AlwaysOnTop bool
	// SkipTaskbar hides the overlay from taskbars and pagers.
	SkipTaskbar bool
	// TPS is the simulation and input rate in ticks per second.
	TPS int
}

// InkConfig holds drawing tool options.
type InkConfig struct {
	// PenColor is the initial ink colour.
	PenColor color.RGBA
	// PenSize and HighlighterSize are the initial stroke widths.
	PenSize         float64
	HighlighterSize float64
	// EraserRadius is the eraser reach beyond a stroke's half width.
	EraserRadius float64
	// BrushSizes are the presets cycled from the keyboard.
	BrushSizes []float64
	// StartMode is the tool selected at startup.
	StartMode tool.Mode
	// Background is the initial overlay background.
	Background color.RGBA
}

// ParticleConfig holds magic pen options.
type ParticleConfig struct {
	// Kind selects petals or stars.
	Kind particle.Kind
	// Seed seeds the particle random source. Zero uses the clock.
	Seed uint64
}

// ExportConfig holds export options.
type ExportConfig struct {
	// Dir is the directory exports are written to.
	Dir string
	// Backdrop captures the screen under the overlay into exports.
	Backdrop bool
}

// ReloadableChanged reports whether b differs from a in any setting that
// can be applied to a running overlay without restarting it.
func ReloadableChanged(a, b *Config) bool {
	if a.Ink.PenColor != b.Ink.PenColor ||
		a.Ink.PenSize != b.Ink.PenSize ||
		a.Ink.HighlighterSize != b.Ink.HighlighterSize ||
		a.Ink.EraserRadius != b.Ink.EraserRadius ||
		a.Ink.Background != b.Ink.Background ||
		a.Particles.Kind != b.Particles.Kind ||
		a.Export != b.Export {
		return true
	}
	if len(a.Ink.BrushSizes) != len(b.Ink.BrushSizes) {
		return true
	}
	for i := range a.Ink.BrushSizes {
		if a.Ink.BrushSizes[i] != b.Ink.BrushSizes[i] {
			return true
		}
	}
	return false
}

// Validate checks if the Config has valid values using the comprehensive validator.
// It returns the first validation error found, or nil if the config is valid.
// For detailed validation results including warnings, use NewValidator().Validate().
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// DefaultDebounce is the delay between a config file change and its reload.
const DefaultDebounce = 250 * time.Millisecond
