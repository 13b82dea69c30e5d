package config

import (
	"github.com/opd-ai/go-annotate/internal/colors"
	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/particle"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// Default values for configuration options.
const (
	// DefaultTitle is the default window title.
	DefaultTitle = "go-annotate"
	// DefaultTPS is the default ticks per second.
	DefaultTPS = 60
	// DefaultExportDir is the default export directory.
	DefaultExportDir = "."
)

// DefaultBrushSizes are the default keyboard brush presets.
func DefaultBrushSizes() []float64 {
	return []float64{2, 4, 8, 12}
}

// DefaultConfig returns a Config with the standard overlay defaults.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:       DefaultTitle,
			Transparent: true,
			AlwaysOnTop: true,
			SkipTaskbar: true,
			TPS:         DefaultTPS,
		},
		Ink: InkConfig{
			PenColor:        tool.DefaultPenColor,
			PenSize:         tool.DefaultPenSize,
			HighlighterSize: tool.DefaultHighlighterSize,
			EraserRadius:    ink.DefaultEraserRadius,
			BrushSizes:      DefaultBrushSizes(),
			StartMode:       tool.Pen,
			Background:      colors.Named["transparent"],
		},
		Particles: ParticleConfig{
			Kind: particle.Petal,
		},
		Export: ExportConfig{
			Dir: DefaultExportDir,
		},
	}
}
