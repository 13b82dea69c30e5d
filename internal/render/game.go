package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-annotate/internal/canvas"
	"github.com/opd-ai/go-annotate/internal/colors"
	"github.com/opd-ai/go-annotate/internal/particle"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// ErrorHandler is a function type for handling errors during game updates.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "update error: %v\n", err)
}

// ActionHandler receives keyboard commands after the game has applied
// them. Export commands are only handled here.
type ActionHandler func(cmd Command)

// DefaultBrushSizes are the brush widths cycled with the bracket keys.
var DefaultBrushSizes = []float64{2, 4, 8, 12}

// Game implements ebiten.Game on top of a canvas. Update polls input and
// advances the frame clock; Draw paints a snapshot of the canvas.
type Game struct {
	mu            sync.RWMutex
	config        Config
	canvas        *canvas.Canvas
	errorHandler  ErrorHandler
	actionHandler ActionHandler
	brushSizes    []float64
	ctx           context.Context
	metrics       *FrameMetrics
	stats         *RenderStats
	running       bool
	quit          bool
	reapplyHints  bool

	// Loop state, only touched from Update, Draw and Layout.
	poller       *Poller
	keys         *Keymap
	cmds         []Command
	hintsApplied bool
	lastUpdate   time.Time
	painter      painter
	frame        canvas.Frame
	layer        *ebiten.Image
	layerVersion uint64
	layerValid   bool
	bg           BackgroundRenderer
	bgColor      color.RGBA
	bgOpaque     bool
}

// NewGame creates a Game drawing cv and reading ebiten input.
func NewGame(config Config, cv *canvas.Canvas) *Game {
	return NewGameWithInput(config, cv, &EbitenInput{}, EbitenKeys{})
}

// NewGameWithInput creates a Game with custom input sources.
// This is useful for testing.
func NewGameWithInput(config Config, cv *canvas.Canvas, in InputSource, keys KeySource) *Game {
	stats := &RenderStats{}
	return &Game{
		config:       config,
		canvas:       cv,
		errorHandler: DefaultErrorHandler,
		brushSizes:   DefaultBrushSizes,
		metrics:      NewFrameMetrics(time.Second),
		stats:        stats,
		poller:       NewPoller(in),
		keys:         NewKeymap(keys, nil),
		painter:      painter{stats: stats},
	}
}

// FrameMetrics returns the update timing metrics.
func (g *Game) FrameMetrics() *FrameMetrics {
	return g.metrics
}

// RenderStats returns the draw counters.
func (g *Game) RenderStats() *RenderStats {
	return g.stats
}

// Canvas returns the canvas the game draws.
func (g *Game) Canvas() *canvas.Canvas {
	return g.canvas
}

// SetErrorHandler sets a custom error handler for update errors.
// If nil is passed, errors will be silently ignored.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetActionHandler sets the handler notified of keyboard commands.
func (g *Game) SetActionHandler(handler ActionHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.actionHandler = handler
}

// SetBrushSizes replaces the brush sizes cycled from the keyboard.
// Non-positive sizes are dropped; an empty result keeps the defaults.
func (g *Game) SetBrushSizes(sizes []float64) {
	valid := make([]float64, 0, len(sizes))
	for _, s := range sizes {
		if s > 0 {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		valid = DefaultBrushSizes
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.brushSizes = valid
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// Quit ends the game loop on the next Update.
func (g *Game) Quit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quit = true
}

// Update implements ebiten.Game.Update.
// It is called every tick (typically 60 times per second).
func (g *Game) Update() error {
	g.mu.Lock()
	ctx, quit, cfg, onErr := g.ctx, g.quit, g.config, g.errorHandler
	if g.reapplyHints {
		g.reapplyHints = false
		g.hintsApplied = false
	}
	g.mu.Unlock()

	if ctx != nil {
		select {
		case <-ctx.Done():
			return ErrGameTerminated
		default:
		}
	}
	if quit {
		return ebiten.Termination
	}

	now := time.Now()
	if !g.lastUpdate.IsZero() {
		g.metrics.RecordFrame(now.Sub(g.lastUpdate))
	}
	g.lastUpdate = now

	if !g.hintsApplied {
		g.hintsApplied = true
		if err := ApplyWindowHints(HintsFor(cfg)); err != nil && onErr != nil {
			onErr(fmt.Errorf("window hints: %w", err))
		}
	}

	g.poller.Poll(g.canvas)

	g.cmds = g.keys.AppendCommands(g.cmds[:0])
	for _, cmd := range g.cmds {
		g.apply(cmd)
	}

	g.canvas.Tick()

	g.mu.RLock()
	quit = g.quit
	g.mu.RUnlock()
	if quit {
		return ebiten.Termination
	}
	return nil
}

// apply runs a keyboard command against the canvas and then notifies the
// action handler.
func (g *Game) apply(cmd Command) {
	cv := g.canvas
	switch cmd.Action {
	case ActionCursor:
		cv.SetMode(tool.Cursor)
	case ActionPen:
		cv.SetMode(tool.Pen)
	case ActionHighlighter:
		cv.SetMode(tool.Highlighter)
	case ActionEraser:
		cv.SetMode(tool.Eraser)
	case ActionMagicPen:
		cv.SetMode(tool.MagicPen)
	case ActionClear:
		cv.Clear()
	case ActionBrushSmaller, ActionBrushLarger:
		g.mu.RLock()
		sizes := g.brushSizes
		g.mu.RUnlock()
		step := 1
		if cmd.Action == ActionBrushSmaller {
			step = -1
		}
		cv.SetBrushSize(nextBrushSize(sizes, cv.BrushSize(), step))
	case ActionColor:
		if cmd.Index >= 0 && cmd.Index < len(colors.Palette) {
			cv.SetColor(colors.Palette[cmd.Index])
		}
	case ActionCycleBackground:
		cv.SetBackground(nextBackground(cv.Background()))
	case ActionToggleParticles:
		if cv.ParticleKind() == particle.Petal {
			cv.SetParticleKind(particle.Star)
		} else {
			cv.SetParticleKind(particle.Petal)
		}
	case ActionQuit:
		g.Quit()
	}

	g.mu.RLock()
	handler := g.actionHandler
	g.mu.RUnlock()
	if handler != nil {
		handler(cmd)
	}
}

// nextBrushSize moves step entries from the size closest to current.
// The result is clamped to the ends of sizes.
func nextBrushSize(sizes []float64, current float64, step int) float64 {
	if len(sizes) == 0 {
		return current
	}
	best := 0
	for i, s := range sizes {
		if math.Abs(s-current) < math.Abs(sizes[best]-current) {
			best = i
		}
	}
	i := best + step
	if sizes[best] != current {
		// Off-preset sizes snap to the nearest preset in the step direction.
		if (step > 0 && sizes[best] > current) || (step < 0 && sizes[best] < current) {
			i = best
		}
	}
	next := sizes[max(0, min(len(sizes)-1, i))]
	if (step > 0 && next < current) || (step < 0 && next > current) {
		return current
	}
	return next
}

// nextBackground returns the background after current in colors.Backgrounds.
func nextBackground(current color.RGBA) color.RGBA {
	for i, c := range colors.Backgrounds {
		if c == current {
			return colors.Backgrounds[(i+1)%len(colors.Backgrounds)]
		}
	}
	return colors.Backgrounds[0]
}

// Draw implements ebiten.Game.Draw.
// It is called every frame to render the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.Snapshot(&g.frame)

	g.mu.RLock()
	transparent := g.config.Transparent
	g.mu.RUnlock()

	if g.bg == nil || g.bgColor != g.frame.Background || g.bgOpaque == transparent {
		g.bg = NewBackgroundRenderer(g.frame.Background, transparent)
		g.bgColor = g.frame.Background
		g.bgOpaque = !transparent
	}
	g.bg.Draw(screen)

	g.drawStrokeLayer(screen)

	for _, cmd := range g.frame.Draft {
		g.painter.command(screen, cmd)
	}
	for _, p := range g.frame.Particles {
		g.painter.particle(screen, p)
	}
}

// drawStrokeLayer draws persisted strokes from a cached layer that is
// rebuilt only when the collection or the screen size changes.
func (g *Game) drawStrokeLayer(screen *ebiten.Image) {
	if len(g.frame.Strokes) == 0 {
		g.layerValid = false
		return
	}
	b := screen.Bounds()
	if g.layer == nil || g.layer.Bounds().Dx() != b.Dx() || g.layer.Bounds().Dy() != b.Dy() {
		if g.layer != nil {
			g.layer.Deallocate()
		}
		g.layer = ebiten.NewImage(b.Dx(), b.Dy())
		g.layerValid = false
	}
	if !g.layerValid || g.layerVersion != g.frame.StrokesVersion {
		g.layer.Clear()
		for _, s := range g.frame.Strokes {
			g.painter.stroke(g.layer, s)
		}
		g.stats.RecordLayerRebuild()
		g.layerVersion = g.frame.StrokesVersion
		g.layerValid = true
	}
	screen.DrawImage(g.layer, nil)
}

// Layout implements ebiten.Game.Layout. The canvas follows the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.canvas.Size()
	if int(w) != outsideWidth || int(h) != outsideHeight {
		g.canvas.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the game configuration in-place. Only Transparent
// and the window hints take effect without restarting the loop.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.reapplyHints = true
}

// Run starts the Ebiten game loop.
// This function blocks until the window is closed.
func (g *Game) Run() error {
	cfg := g.Config()

	width, height := cfg.Width, cfg.Height
	if width == 0 || height == 0 {
		mw, mh := ebiten.Monitor().Size()
		if width == 0 {
			width = mw
		}
		if height == 0 {
			height = mh
		}
	}
	ebiten.SetWindowSize(width, height)
	if cfg.X != 0 || cfg.Y != 0 {
		ebiten.SetWindowPosition(cfg.X, cfg.Y)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(cfg.AlwaysOnTop)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	g.canvas.Resize(float64(width), float64(height))
	g.canvas.SetWindow(NewWindow())

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		ScreenTransparent: cfg.Transparent,
		SkipTaskbar:       cfg.SkipTaskbar,
	})

	g.poller.Release(g.canvas)
	CloseWindowHints()

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
