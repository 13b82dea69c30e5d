package annotate

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"slices"

	"github.com/opd-ai/go-annotate/internal/config"
	"github.com/opd-ai/go-annotate/internal/export"
	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/particle"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// Configuration format constants for use with NewFromReader.
const (
	// FormatLegacy indicates the key value text format.
	FormatLegacy = config.FormatLegacy
	// FormatLua indicates the Lua configuration format.
	FormatLua = config.FormatLua
)

// Config is a complete overlay configuration.
type Config = config.Config

// DefaultConfig returns the configuration used when a file sets nothing.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// Mode is the active tool.
type Mode = tool.Mode

// Tool modes.
const (
	ModeCursor      = tool.Cursor
	ModePen         = tool.Pen
	ModeHighlighter = tool.Highlighter
	ModeEraser      = tool.Eraser
	ModeMagicPen    = tool.MagicPen
)

// ParticleKind selects the magic pen particle shape.
type ParticleKind = particle.Kind

// Particle kinds.
const (
	ParticlePetal = particle.Petal
	ParticleStar  = particle.Star
)

// Format is an export file format.
type Format = export.Format

// Export formats.
const (
	FormatPNG = export.PNG
	FormatPDF = export.PDF
)

// PointerID identifies one active contact. MousePointer is the mouse.
type PointerID = ink.PointerID

// MousePointer is the identifier of the mouse pointer.
const MousePointer = ink.MousePointer

// Overlay is an embedded annotation overlay with full lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type Overlay interface {
	// Start opens the overlay window, or in headless mode only marks the
	// instance running. It returns immediately; the render loop runs in a
	// background goroutine. Returns ErrAlreadyRunning if already running.
	Start() error

	// Run starts the overlay and runs the render loop on the calling
	// goroutine until it stops. Call it from main when the windowing
	// system needs the main thread.
	Run() error

	// Stop closes the window and waits for the render loop to exit.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// Wait blocks until the render loop exits, for example because the
	// user quit from the keyboard.
	Wait() error

	// ReloadConfig reloads the configuration from its source and applies
	// the drawing settings in place. Window geometry is kept.
	// On error the previous configuration remains active.
	ReloadConfig() error

	IsRunning() bool
	Status() Status

	// SetErrorHandler registers a callback for runtime errors.
	// The handler is invoked asynchronously and panics in it are recovered.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)

	Health() HealthCheck
	Metrics() *Metrics

	SetMode(m Mode)
	Mode() Mode
	SetColor(c color.RGBA)
	SetBrushSize(size float64)
	SetBackground(c color.RGBA)
	SetParticleKind(k ParticleKind)
	Clear()

	// Pointer methods feed input in surface coordinates. They are how a
	// headless overlay is driven; the window feeds its own input.
	PointerDown(id PointerID, x, y float64)
	PointerMove(id PointerID, x, y float64)
	PointerUp(id PointerID, x, y float64)
	PointerCancel(id PointerID)

	// Tick advances the frame clock by one frame and reports whether
	// anything is still animating.
	Tick() bool

	StrokeCount() int
	ParticleCount() int

	// Export writes the persisted strokes to a new file in the configured
	// export directory and returns its path.
	Export(format Format) (string, error)
}

// New creates an overlay from a configuration file on disk, in either the
// Lua or the legacy format. The instance is not started.
//
// Example:
//
//	o, err := annotate.New("/home/user/.config/go-annotate/config.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer o.Stop()
//	if err := o.Start(); err != nil {
//		log.Fatal(err)
//	}
//	o.Wait()
func New(configPath string, opts *Options) (Overlay, error) {
	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, fmt.Errorf("parser init: %w", err)
		}
		defer p.Close()
		return p.ParseFile(configPath)
	}
	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return newOverlay(cfg, opts, configPath, configPath, loader)
}

// NewFromFS creates an overlay using a configuration stored in fsys,
// for example an embed.FS bundled with the application.
func NewFromFS(fsys fs.FS, configPath string, opts *Options) (Overlay, error) {
	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, fmt.Errorf("parser init: %w", err)
		}
		defer p.Close()
		return p.ParseFromFS(fsys, configPath)
	}
	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config from FS: %w", err)
	}
	return newOverlay(cfg, opts, "embedded:"+configPath, "", loader)
}

// NewFromReader creates an overlay from configuration content. The format
// is FormatLua or FormatLegacy. The content is kept so ReloadConfig parses
// it again.
func NewFromReader(r io.Reader, format string, opts *Options) (Overlay, error) {
	if format != FormatLegacy && format != FormatLua {
		return nil, fmt.Errorf("invalid format: %s (expected '%s' or '%s')", format, FormatLua, FormatLegacy)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, fmt.Errorf("parser init: %w", err)
		}
		defer p.Close()
		return p.ParseReader(bytes.NewReader(content), format)
	}
	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return newOverlay(cfg, opts, "reader", "", loader)
}

// NewFromConfig creates an overlay from an in-memory configuration.
// A nil cfg uses DefaultConfig. ReloadConfig returns
// ErrNoConfigSource for such overlays.
func NewFromConfig(cfg *Config, opts *Options) (Overlay, error) {
	c := config.DefaultConfig()
	if cfg != nil {
		c = *cfg
		c.Ink.BrushSizes = slices.Clone(cfg.Ink.BrushSizes)
	}
	return newOverlay(&c, opts, "memory", "", nil)
}
