package tool

import (
	"image/color"

	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/particle"
)

// Default drawing attributes.
const (
	DefaultPenSize         = 4.0
	DefaultHighlighterSize = 20.0
)

// DefaultPenColor is the initial ink colour.
var DefaultPenColor = color.RGBA{255, 0, 0, 255}

// TransparentBackground is nearly invisible but keeps alpha above zero so
// the overlay still receives pointer input where nothing is drawn.
var TransparentBackground = color.RGBA{0, 0, 0, 1}

// Host is the overlay window the controller configures on mode entry.
type Host interface {
	// SetPassthrough makes the window pass pointer input to what lies below.
	SetPassthrough(enabled bool)
	// SetInkHitTestable sets whether the ink layer accepts pointer input.
	SetInkHitTestable(enabled bool)
}

// Strokes is the persisted stroke collection owned by the host canvas.
type Strokes interface {
	Commit(s *ink.Stroke)
	RemoveStrokesIntersecting(p ink.Point) int
	Clear() int
}

// Emitter is the particle engine driven in magic-pen mode.
type Emitter interface {
	SetEmitPosition(x, y float64)
	StartEmitting()
	StopEmitting()
	SetKind(k particle.Kind)
	Kind() particle.Kind
	Clear()
}

// Observer receives notifications about controller activity.
type Observer interface {
	StrokeCommitted(s *ink.Stroke)
	StrokesErased(n int)
	ModeChanged(from, to Mode)
	Cleared(strokes int)
}

// Options configures a new Controller. Zero values select defaults.
type Options struct {
	Mode            Mode
	PenColor        color.RGBA
	PenSize         float64
	HighlighterSize float64
	Background      *color.RGBA
	ParticleKind    particle.Kind
	Finalizer       *ink.Finalizer
	Observer        Observer
}

// modeHandler implements the behaviour of one Mode.
type modeHandler interface {
	enter(c *Controller)
	exit(c *Controller)
	down(c *Controller, id ink.PointerID, p ink.Point)
	move(c *Controller, id ink.PointerID, p ink.Point)
	up(c *Controller, id ink.PointerID, p ink.Point)
}

// Controller is the tool mode state machine. Pointer events are routed to
// the handler of the current mode: ink modes feed the session table, the
// eraser removes persisted strokes and the magic pen drives the emitter.
//
// Controller is not safe for concurrent use.
type Controller struct {
	host     Host
	strokes  Strokes
	emitter  Emitter
	observer Observer

	handlers [modeCount]modeHandler
	mode     Mode

	sessions  *ink.SessionTable
	draft     *ink.DraftRenderer
	finalizer *ink.Finalizer

	attrs           ink.Attributes
	penSize         float64
	highlighterSize float64
	background      color.RGBA

	// pressed tracks pointers held down outside the ink modes.
	pressed map[ink.PointerID]struct{}
}

// NewController creates a controller in opts.Mode and runs its entry
// action against host.
func NewController(host Host, strokes Strokes, emitter Emitter, opts Options) *Controller {
	c := &Controller{
		host:            host,
		strokes:         strokes,
		emitter:         emitter,
		observer:        opts.Observer,
		sessions:        ink.NewSessionTable(),
		draft:           ink.NewDraftRenderer(),
		finalizer:       opts.Finalizer,
		penSize:         opts.PenSize,
		highlighterSize: opts.HighlighterSize,
		background:      TransparentBackground,
		pressed:         make(map[ink.PointerID]struct{}),
	}
	c.handlers = [modeCount]modeHandler{
		Cursor:      cursorHandler{},
		Pen:         inkHandler{},
		Highlighter: inkHandler{highlighter: true},
		Eraser:      eraserHandler{},
		MagicPen:    magicHandler{},
	}
	if c.finalizer == nil {
		c.finalizer = &ink.Finalizer{}
	}
	if c.penSize <= 0 {
		c.penSize = DefaultPenSize
	}
	if c.highlighterSize <= 0 {
		c.highlighterSize = DefaultHighlighterSize
	}
	c.attrs = ink.Attributes{Color: opts.PenColor, Width: c.penSize}
	if c.attrs.Color == (color.RGBA{}) {
		c.attrs.Color = DefaultPenColor
	}
	if opts.Background != nil {
		c.background = *opts.Background
	}
	if emitter != nil {
		emitter.SetKind(opts.ParticleKind)
	}

	c.mode = opts.Mode
	if !c.mode.Valid() {
		c.mode = Pen
	}
	c.handlers[c.mode].enter(c)
	return c
}

// SetObserver replaces the activity observer. Nil disables notifications.
func (c *Controller) SetObserver(o Observer) {
	c.observer = o
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// SetMode switches to m. Live ink sessions are committed and pressed
// pointers are released before the new mode's entry action runs.
// Switching to the current mode re-runs its exit and entry actions.
func (c *Controller) SetMode(m Mode) {
	if !m.Valid() {
		return
	}
	from := c.mode
	c.handlers[from].exit(c)
	c.mode = m
	c.handlers[m].enter(c)
	if from != m && c.observer != nil {
		c.observer.ModeChanged(from, m)
	}
}

// SetColor sets the ink colour for sessions started from now on.
func (c *Controller) SetColor(clr color.RGBA) {
	c.attrs.Color = clr
}

// Color returns the current ink colour.
func (c *Controller) Color() color.RGBA {
	return c.attrs.Color
}

// SetBrushSize sets the width of the active ink tool: the highlighter
// width in Highlighter mode, the pen width otherwise. Sizes <= 0 are
// ignored.
func (c *Controller) SetBrushSize(size float64) {
	if size <= 0 {
		return
	}
	if c.mode == Highlighter {
		c.highlighterSize = size
		c.attrs.Width = size
		return
	}
	c.penSize = size
	c.attrs.Width = size
}

// BrushSize returns the width of the active ink tool.
func (c *Controller) BrushSize() float64 {
	if c.mode == Highlighter {
		return c.highlighterSize
	}
	return c.penSize
}

// SetPenSize sets the pen width. Sizes <= 0 are ignored.
func (c *Controller) SetPenSize(size float64) {
	if size <= 0 {
		return
	}
	c.penSize = size
	if c.mode != Highlighter {
		c.attrs.Width = size
	}
}

// SetHighlighterSize sets the highlighter width. Sizes <= 0 are ignored.
func (c *Controller) SetHighlighterSize(size float64) {
	if size <= 0 {
		return
	}
	c.highlighterSize = size
	if c.mode == Highlighter {
		c.attrs.Width = size
	}
}

// SetBackground sets the overlay background colour.
func (c *Controller) SetBackground(clr color.RGBA) {
	c.background = clr
}

// Background returns the overlay background colour.
func (c *Controller) Background() color.RGBA {
	return c.background
}

// SetParticleKind selects the magic-pen particle kind.
func (c *Controller) SetParticleKind(k particle.Kind) {
	if c.emitter != nil {
		c.emitter.SetKind(k)
	}
}

// ParticleKind returns the selected particle kind.
func (c *Controller) ParticleKind() particle.Kind {
	if c.emitter == nil {
		return particle.Petal
	}
	return c.emitter.Kind()
}

// Attributes returns the drawing attributes applied to new sessions.
func (c *Controller) Attributes() ink.Attributes {
	return c.attrs
}

// Clear empties the persisted stroke collection, drops live sessions and
// removes every particle, whatever the mode.
func (c *Controller) Clear() {
	c.sessions.Reset()
	c.draft.Reset()
	n := 0
	if c.strokes != nil {
		n = c.strokes.Clear()
	}
	if c.emitter != nil {
		c.emitter.Clear()
	}
	if c.observer != nil {
		c.observer.Cleared(n)
	}
}

// PointerDown routes a pointer press to the current mode.
func (c *Controller) PointerDown(id ink.PointerID, p ink.Point) {
	c.handlers[c.mode].down(c, id, p)
}

// PointerMove routes a pointer move to the current mode.
func (c *Controller) PointerMove(id ink.PointerID, p ink.Point) {
	c.handlers[c.mode].move(c, id, p)
}

// PointerUp routes a pointer release to the current mode.
func (c *Controller) PointerUp(id ink.PointerID, p ink.Point) {
	c.handlers[c.mode].up(c, id, p)
}

// PointerCancel drops any state held for id without committing it.
func (c *Controller) PointerCancel(id ink.PointerID) {
	if c.sessions.Cancel(id) {
		c.draft.Invalidate()
	}
	if _, ok := c.pressed[id]; ok {
		c.handlers[c.mode].up(c, id, ink.Point{})
	}
}

// Draft returns the draft display list for the live sessions. The slice
// is valid until the next pointer event.
func (c *Controller) Draft() []ink.DrawCommand {
	return c.draft.Commands(c.sessions)
}

// ActiveSessions returns the number of live ink sessions.
func (c *Controller) ActiveSessions() int {
	return c.sessions.Len()
}

func (c *Controller) commit(s ink.Session) {
	stroke, ok := c.finalizer.Finalize(s.Points, s.Attributes)
	if !ok {
		return
	}
	if c.strokes != nil {
		c.strokes.Commit(stroke)
	}
	if c.observer != nil {
		c.observer.StrokeCommitted(stroke)
	}
}

func (c *Controller) erase(p ink.Point) {
	if c.strokes == nil {
		return
	}
	if n := c.strokes.RemoveStrokesIntersecting(p); n > 0 && c.observer != nil {
		c.observer.StrokesErased(n)
	}
}

func (c *Controller) capture(passthrough bool) {
	if c.host == nil {
		return
	}
	c.host.SetPassthrough(passthrough)
	c.host.SetInkHitTestable(!passthrough)
}

func (c *Controller) releaseAll() {
	clear(c.pressed)
}
