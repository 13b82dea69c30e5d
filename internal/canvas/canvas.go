// Package canvas assembles the annotation core: the persisted stroke
// collection, the frame clock, the particle engine and the tool mode
// controller. Canvas is the single synchronization point between the core,
// which is single-threaded, and its callers on other goroutines.
package canvas

import (
	"image/color"
	"math/rand/v2"
	"sync"

	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/particle"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// Options configures a new Canvas.
type Options struct {
	// Width and Height are the initial surface size.
	Width, Height float64
	// Seed seeds the particle engine. Zero uses a time-based seed.
	Seed uint64
	// Rand overrides the particle random source when non-nil.
	Rand *rand.Rand
	// EraserRadius is the eraser reach beyond the stroke width.
	// Values <= 0 use ink.DefaultEraserRadius.
	EraserRadius float64
	// HitTester overrides the eraser hit test when non-nil.
	HitTester ink.HitTester
	// Tool configures the mode controller.
	Tool tool.Options
	// Window receives input capture changes.
	Window tool.Host
}

// Canvas owns the annotation core. All methods are safe for concurrent use.
type Canvas struct {
	mu sync.Mutex

	width, height float64

	strokes *ink.Collection
	clock   *FrameClock
	engine  *particle.Engine
	ctrl    *tool.Controller

	window         tool.Host
	passthrough    bool
	inkHitTestable bool
}

// New creates a canvas and enters the configured initial mode.
func New(opts Options) *Canvas {
	c := &Canvas{
		width:  opts.Width,
		height: opts.Height,
		clock:  &FrameClock{},
		window: opts.Window,
	}

	hit := opts.HitTester
	if hit == nil {
		r := opts.EraserRadius
		if r <= 0 {
			r = ink.DefaultEraserRadius
		}
		hit = ink.RadiusHitTester{Radius: r}
	}
	c.strokes = ink.NewCollection(hit)

	engineOpts := []particle.Option{particle.WithBounds(c.bounds), particle.WithKind(opts.Tool.ParticleKind)}
	switch {
	case opts.Rand != nil:
		engineOpts = append(engineOpts, particle.WithRand(opts.Rand))
	case opts.Seed != 0:
		engineOpts = append(engineOpts, particle.WithSeed(opts.Seed))
	}
	c.engine = particle.NewEngine(c.clock, engineOpts...)
	c.ctrl = tool.NewController(hostFunc{c}, c.strokes, c.engine, opts.Tool)
	return c
}

// bounds runs inside Tick with c.mu held.
func (c *Canvas) bounds() (float64, float64) {
	return c.width, c.height
}

// hostFunc forwards controller entry actions to the canvas without taking
// the lock, which the controller's caller already holds.
type hostFunc struct{ c *Canvas }

func (h hostFunc) SetPassthrough(enabled bool) {
	h.c.passthrough = enabled
	if h.c.window != nil {
		h.c.window.SetPassthrough(enabled)
	}
}

func (h hostFunc) SetInkHitTestable(enabled bool) {
	h.c.inkHitTestable = enabled
	if h.c.window != nil {
		h.c.window.SetInkHitTestable(enabled)
	}
}

// SetWindow attaches the window that receives input capture changes and
// applies the current state to it.
func (c *Canvas) SetWindow(w tool.Host) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = w
	if w != nil {
		w.SetPassthrough(c.passthrough)
		w.SetInkHitTestable(c.inkHitTestable)
	}
}

// SetObserver sets the controller activity observer.
func (c *Canvas) SetObserver(o tool.Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.SetObserver(o)
}

// Resize sets the surface size used to bound particles.
func (c *Canvas) Resize(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = width, height
}

// Size returns the surface size.
func (c *Canvas) Size() (width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Passthrough reports whether the overlay passes pointer input through.
func (c *Canvas) Passthrough() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passthrough
}

// InkHitTestable reports whether the ink layer accepts pointer input.
func (c *Canvas) InkHitTestable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inkHitTestable
}

// SetMode switches the active tool.
func (c *Canvas) SetMode(m tool.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.SetMode(m)
}

// Mode returns the active tool.
func (c *Canvas) Mode() tool.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.Mode()
}

// SetColor sets the ink colour.
func (c *Canvas) SetColor(clr color.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.SetColor(clr)
}

// Color returns the ink colour.
func (c *Canvas) Color() color.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.Color()
}

// SetBrushSize sets the width of the active ink tool.
func (c *Canvas) SetBrushSize(size float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.SetBrushSize(size)
}

// BrushSize returns the width of the active ink tool.
func (c *Canvas) BrushSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.BrushSize()
}

// SetPenSize sets the pen width.
func (c *Canvas) SetPenSize(size float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.SetPenSize(size)
}

// SetHighlighterSize sets the highlighter width.
func (c *Canvas) SetHighlighterSize(size float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.SetHighlighterSize(size)
}

// SetBackground sets the overlay background colour.
func (c *Canvas) SetBackground(clr color.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.SetBackground(clr)
}

// Background returns the overlay background colour.
func (c *Canvas) Background() color.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.Background()
}

// SetParticleKind selects the magic-pen particle kind.
func (c *Canvas) SetParticleKind(k particle.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.SetParticleKind(k)
}

// ParticleKind returns the magic-pen particle kind.
func (c *Canvas) ParticleKind() particle.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.ParticleKind()
}

// SetEraserRadius replaces the eraser hit test with a radius test.
func (c *Canvas) SetEraserRadius(radius float64) {
	if radius <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strokes.SetHitTester(ink.RadiusHitTester{Radius: radius})
}

// Clear removes every stroke and particle.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.Clear()
}

// PointerDown delivers a pointer press.
func (c *Canvas) PointerDown(id ink.PointerID, p ink.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.PointerDown(id, p)
}

// PointerMove delivers a pointer move.
func (c *Canvas) PointerMove(id ink.PointerID, p ink.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.PointerMove(id, p)
}

// PointerUp delivers a pointer release.
func (c *Canvas) PointerUp(id ink.PointerID, p ink.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.PointerUp(id, p)
}

// PointerCancel drops a pointer without committing its stroke.
func (c *Canvas) PointerCancel(id ink.PointerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctrl.PointerCancel(id)
}

// Tick advances the frame clock once. It reports whether any subscriber
// consumed the frame.
func (c *Canvas) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.Tick()
}

// WantsFrames reports whether a subscriber is waiting for ticks.
func (c *Canvas) WantsFrames() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.Subscribed() > 0
}

// StrokeCount returns the number of persisted strokes.
func (c *Canvas) StrokeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strokes.Len()
}

// Strokes returns the persisted strokes in commit order.
func (c *Canvas) Strokes() []*ink.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strokes.Strokes()
}

// ParticleCount returns the number of live particles.
func (c *Canvas) ParticleCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Count()
}

// Stats returns lifetime counters of the core.
func (c *Canvas) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Strokes:          c.strokes.Len(),
		Particles:        c.engine.Count(),
		ParticlesSpawned: c.engine.Spawned(),
		Frames:           c.clock.Frames(),
		ActiveSessions:   c.ctrl.ActiveSessions(),
	}
}

// Stats is a point-in-time view of the core counters.
type Stats struct {
	Strokes          int
	Particles        int
	ParticlesSpawned uint64
	Frames           uint64
	ActiveSessions   int
}
