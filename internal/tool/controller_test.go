package tool

import (
	"image/color"
	"testing"

	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/particle"
)

type mockHost struct {
	passthrough bool
	hitTestable bool
	calls       int
}

func (h *mockHost) SetPassthrough(enabled bool)    { h.passthrough = enabled; h.calls++ }
func (h *mockHost) SetInkHitTestable(enabled bool) { h.hitTestable = enabled }

type mockObserver struct {
	committed int
	erased    int
	changes   []Mode
	clears    int
}

func (o *mockObserver) StrokeCommitted(*ink.Stroke) { o.committed++ }
func (o *mockObserver) StrokesErased(n int)         { o.erased += n }
func (o *mockObserver) ModeChanged(_, to Mode)      { o.changes = append(o.changes, to) }
func (o *mockObserver) Cleared(int)                 { o.clears++ }

// manualClock ticks its subscriber on demand.
type manualClock struct {
	sub particle.Ticker
}

func (c *manualClock) Subscribe(t particle.Ticker) { c.sub = t }
func (c *manualClock) Unsubscribe(particle.Ticker) { c.sub = nil }

func (c *manualClock) step() bool {
	if c.sub == nil {
		return false
	}
	c.sub.Tick()
	return true
}

type fixture struct {
	host     *mockHost
	strokes  *ink.Collection
	clock    *manualClock
	engine   *particle.Engine
	observer *mockObserver
	ctrl     *Controller
}

func newFixture(mode Mode) *fixture {
	f := &fixture{
		host:     &mockHost{},
		strokes:  ink.NewCollection(ink.RadiusHitTester{Radius: 4}),
		clock:    &manualClock{},
		observer: &mockObserver{},
	}
	f.engine = particle.NewEngine(f.clock, particle.WithSeed(1),
		particle.WithBounds(func() (float64, float64) { return 1920, 1080 }))
	f.ctrl = NewController(f.host, f.strokes, f.engine, Options{Mode: mode, Observer: f.observer})
	return f
}

func TestControllerEntryActions(t *testing.T) {
	tests := []struct {
		mode        Mode
		passthrough bool
		highlighter bool
		width       float64
	}{
		{Cursor, true, false, DefaultPenSize},
		{Pen, false, false, DefaultPenSize},
		{Highlighter, false, true, DefaultHighlighterSize},
		{Eraser, false, false, DefaultPenSize},
		{MagicPen, false, false, DefaultPenSize},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			f := newFixture(Pen)
			f.ctrl.SetMode(tt.mode)
			if f.host.passthrough != tt.passthrough {
				t.Errorf("passthrough = %v, want %v", f.host.passthrough, tt.passthrough)
			}
			if f.host.hitTestable == tt.passthrough {
				t.Errorf("ink hit-testable = %v in %v", f.host.hitTestable, tt.mode)
			}
			if tt.mode.Inks() {
				a := f.ctrl.Attributes()
				if a.Highlighter != tt.highlighter || a.Width != tt.width {
					t.Errorf("attributes = %+v, want highlighter=%v width=%v", a, tt.highlighter, tt.width)
				}
			}
		})
	}
}

func TestControllerStrokePointCount(t *testing.T) {
	for _, n := range []int{0, 1, 4, 50} {
		f := newFixture(Pen)
		f.ctrl.PointerDown(ink.MousePointer, ink.Point{X: 0, Y: 0})
		for i := 1; i <= n; i++ {
			f.ctrl.PointerMove(ink.MousePointer, ink.Point{X: float64(i), Y: 0})
		}
		f.ctrl.PointerUp(ink.MousePointer, ink.Point{X: float64(n), Y: 0})

		strokes := f.strokes.Strokes()
		if len(strokes) != 1 {
			t.Fatalf("n=%d: strokes = %d, want 1", n, len(strokes))
		}
		pts := strokes[0].Points
		if len(pts) != 1+n {
			t.Errorf("n=%d: points = %d, want %d", n, len(pts), 1+n)
		}
		for i, p := range pts {
			if p.X != float64(i) {
				t.Errorf("n=%d: point %d = %v out of order", n, i, p)
			}
		}
	}
}

func TestControllerUnknownPointer(t *testing.T) {
	f := newFixture(Pen)
	f.ctrl.PointerMove(5, ink.Point{X: 1, Y: 1})
	f.ctrl.PointerUp(5, ink.Point{X: 1, Y: 1})

	if f.strokes.Len() != 0 || f.ctrl.ActiveSessions() != 0 || len(f.ctrl.Draft()) != 0 {
		t.Errorf("state mutated: strokes=%d sessions=%d", f.strokes.Len(), f.ctrl.ActiveSessions())
	}
	if f.observer.committed != 0 {
		t.Errorf("committed = %d, want 0", f.observer.committed)
	}
}

func TestControllerMultiTouch(t *testing.T) {
	f := newFixture(Pen)
	f.ctrl.PointerDown(1, ink.Point{X: 0, Y: 0})
	f.ctrl.PointerDown(2, ink.Point{X: 500, Y: 0})
	f.ctrl.PointerMove(2, ink.Point{X: 500, Y: 1})
	f.ctrl.PointerMove(1, ink.Point{X: 0, Y: 1})
	f.ctrl.PointerMove(2, ink.Point{X: 500, Y: 2})

	if got := len(f.ctrl.Draft()); got != 2 {
		t.Errorf("draft commands = %d, want 2", got)
	}

	f.ctrl.PointerUp(2, ink.Point{})
	f.ctrl.PointerUp(1, ink.Point{})

	for _, s := range f.strokes.Strokes() {
		x := s.Points[0].X
		for _, p := range s.Points {
			if p.X != x {
				t.Errorf("stroke %s mixes points from two pointers", s.ID)
			}
		}
	}
	if f.strokes.Len() != 2 {
		t.Errorf("strokes = %d, want 2", f.strokes.Len())
	}
}

func TestControllerAttributeSnapshot(t *testing.T) {
	f := newFixture(Pen)
	blue := color.RGBA{0, 0, 255, 255}
	f.ctrl.SetColor(blue)
	f.ctrl.PointerDown(1, ink.Point{})
	f.ctrl.SetColor(color.RGBA{0, 255, 0, 255})
	f.ctrl.SetBrushSize(12)
	f.ctrl.PointerUp(1, ink.Point{})

	s := f.strokes.Strokes()[0]
	if s.Attributes.Color != blue || s.Attributes.Width != DefaultPenSize {
		t.Errorf("stroke attributes = %+v, want blue width %v", s.Attributes, DefaultPenSize)
	}

	f.ctrl.SetColor(color.RGBA{9, 9, 9, 255})
	if s.Attributes.Color != blue {
		t.Error("finalized stroke changed after SetColor")
	}
}

func TestControllerBrushSizes(t *testing.T) {
	f := newFixture(Pen)
	f.ctrl.SetBrushSize(8)
	f.ctrl.SetBrushSize(-1)
	if got := f.ctrl.Attributes().Width; got != 8 {
		t.Errorf("pen width = %v, want 8", got)
	}

	f.ctrl.SetMode(Highlighter)
	f.ctrl.SetBrushSize(30)
	if got := f.ctrl.BrushSize(); got != 30 {
		t.Errorf("highlighter size = %v, want 30", got)
	}

	f.ctrl.SetMode(Pen)
	if got := f.ctrl.Attributes().Width; got != 8 {
		t.Errorf("pen width restored = %v, want 8", got)
	}
}

func TestControllerSetPenSize(t *testing.T) {
	f := newFixture(Highlighter)
	f.ctrl.SetPenSize(6)
	f.ctrl.SetPenSize(0)
	if got := f.ctrl.BrushSize(); got != DefaultHighlighterSize {
		t.Errorf("highlighter size = %v, want %v", got, DefaultHighlighterSize)
	}

	f.ctrl.SetMode(Pen)
	if got := f.ctrl.Attributes().Width; got != 6 {
		t.Errorf("pen width = %v, want 6", got)
	}
	f.ctrl.SetPenSize(3)
	if got := f.ctrl.Attributes().Width; got != 3 {
		t.Errorf("pen width after SetPenSize = %v, want 3", got)
	}
}

func TestControllerPenEraserScenario(t *testing.T) {
	f := newFixture(Cursor)
	f.ctrl.SetMode(Pen)
	pts := []ink.Point{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 30, Y: 10}, {X: 40, Y: 10}, {X: 50, Y: 10}}
	f.ctrl.PointerDown(ink.MousePointer, pts[0])
	for _, p := range pts[1:] {
		f.ctrl.PointerMove(ink.MousePointer, p)
	}
	f.ctrl.PointerUp(ink.MousePointer, pts[4])
	if f.strokes.Len() != 1 {
		t.Fatalf("strokes = %d, want 1", f.strokes.Len())
	}

	f.ctrl.SetMode(Eraser)
	f.ctrl.PointerDown(ink.MousePointer, ink.Point{X: 100, Y: 100})
	f.ctrl.PointerMove(ink.MousePointer, ink.Point{X: 30, Y: 11})
	f.ctrl.PointerUp(ink.MousePointer, ink.Point{X: 30, Y: 11})

	if f.strokes.Len() != 0 {
		t.Errorf("strokes = %d after erase, want 0", f.strokes.Len())
	}
	if got := len(f.ctrl.Draft()); got != 0 {
		t.Errorf("draft commands = %d, want 0", got)
	}
	if f.observer.erased != 1 {
		t.Errorf("observer erased = %d, want 1", f.observer.erased)
	}
}

func TestControllerEraserIgnoresHover(t *testing.T) {
	f := newFixture(Pen)
	f.ctrl.PointerDown(1, ink.Point{X: 10, Y: 10})
	f.ctrl.PointerUp(1, ink.Point{})
	f.ctrl.SetMode(Eraser)

	f.ctrl.PointerMove(ink.MousePointer, ink.Point{X: 10, Y: 10})
	if f.strokes.Len() != 1 {
		t.Error("hover in eraser mode removed a stroke")
	}
	if f.ctrl.ActiveSessions() != 0 {
		t.Error("eraser started an ink session")
	}
}

func TestControllerModeSwitchCommitsLiveSessions(t *testing.T) {
	f := newFixture(Highlighter)
	f.ctrl.PointerDown(3, ink.Point{X: 1, Y: 1})
	f.ctrl.PointerMove(3, ink.Point{X: 2, Y: 2})
	f.ctrl.SetMode(Eraser)

	if f.strokes.Len() != 1 {
		t.Fatalf("strokes = %d, want 1", f.strokes.Len())
	}
	if !f.strokes.Strokes()[0].Attributes.Highlighter {
		t.Error("committed stroke lost its highlighter snapshot")
	}
	if len(f.ctrl.Draft()) != 0 {
		t.Error("draft not empty after mode switch")
	}

	f.ctrl.PointerMove(3, ink.Point{X: 3, Y: 3})
	f.ctrl.PointerUp(3, ink.Point{X: 3, Y: 3})
	if f.strokes.Len() != 1 {
		t.Errorf("late events changed strokes: %d", f.strokes.Len())
	}
}

func TestControllerMagicPenScenario(t *testing.T) {
	f := newFixture(Pen)
	f.ctrl.SetMode(MagicPen)
	f.ctrl.PointerDown(ink.MousePointer, ink.Point{X: 100, Y: 100})
	for i := 0; i < 10; i++ {
		if !f.clock.step() {
			t.Fatal("engine not subscribed while emitting")
		}
	}
	if f.engine.Count() != 30 {
		t.Fatalf("particles = %d after 10 ticks, want 30", f.engine.Count())
	}
	if f.ctrl.ActiveSessions() != 0 || f.strokes.Len() != 0 {
		t.Error("magic pen fed the ink path")
	}

	f.ctrl.PointerUp(ink.MousePointer, ink.Point{X: 100, Y: 100})
	ticks := 0
	for f.clock.step() {
		ticks++
	}
	if ticks > 85 {
		t.Errorf("particles outlived %d ticks, want <= 85", ticks)
	}
	if f.engine.Count() != 0 || f.engine.Active() {
		t.Errorf("Count=%d Active=%v, want 0 and false", f.engine.Count(), f.engine.Active())
	}
}

func TestControllerMagicPenMoveAndMultiplePointers(t *testing.T) {
	f := newFixture(MagicPen)
	f.ctrl.PointerMove(ink.MousePointer, ink.Point{X: 5, Y: 5})
	if f.engine.Emitting() {
		t.Fatal("hover started emission")
	}

	f.ctrl.PointerDown(1, ink.Point{X: 10, Y: 10})
	f.ctrl.PointerDown(2, ink.Point{X: 20, Y: 20})
	f.ctrl.PointerMove(1, ink.Point{X: 30, Y: 40})
	if x, y := f.engine.EmitPosition(); x != 30 || y != 40 {
		t.Errorf("emit position = (%v, %v), want (30, 40)", x, y)
	}

	f.ctrl.PointerUp(2, ink.Point{})
	if !f.engine.Emitting() {
		t.Error("emission stopped while a pointer is still down")
	}
	f.ctrl.PointerUp(1, ink.Point{})
	if f.engine.Emitting() {
		t.Error("emission continued after last pointer up")
	}
}

func TestControllerLeavingMagicPenKeepsParticles(t *testing.T) {
	f := newFixture(MagicPen)
	f.ctrl.PointerDown(ink.MousePointer, ink.Point{X: 100, Y: 100})
	f.clock.step()
	f.clock.step()

	f.ctrl.SetMode(Pen)
	if f.engine.Emitting() {
		t.Error("emission continued after leaving magic pen")
	}
	if f.engine.Count() != 6 {
		t.Errorf("particles = %d, want 6 in flight", f.engine.Count())
	}
	if !f.engine.Active() {
		t.Error("engine unsubscribed with particles in flight")
	}
}

// countingEmitter stands in for a particle engine with a fixed population.
type countingEmitter struct {
	count    int
	emitting bool
	kind     particle.Kind
}

func (e *countingEmitter) SetEmitPosition(float64, float64) {}
func (e *countingEmitter) StartEmitting()                   { e.emitting = true }
func (e *countingEmitter) StopEmitting()                    { e.emitting = false }
func (e *countingEmitter) SetKind(k particle.Kind)          { e.kind = k }
func (e *countingEmitter) Kind() particle.Kind              { return e.kind }
func (e *countingEmitter) Clear()                           { e.count = 0 }

func TestControllerClearScenario(t *testing.T) {
	for _, mode := range Modes {
		t.Run(mode.String(), func(t *testing.T) {
			strokes := ink.NewCollection(nil)
			emitter := &countingEmitter{}
			obs := &mockObserver{}
			ctrl := NewController(&mockHost{}, strokes, emitter, Options{Mode: Pen, Observer: obs})
			for i := 0; i < 3; i++ {
				y := float64(i * 50)
				ctrl.PointerDown(ink.MousePointer, ink.Point{X: 0, Y: y})
				ctrl.PointerMove(ink.MousePointer, ink.Point{X: 10, Y: y})
				ctrl.PointerUp(ink.MousePointer, ink.Point{X: 10, Y: y})
			}
			emitter.count = 5
			ctrl.SetMode(mode)

			ctrl.Clear()
			if strokes.Len() != 0 {
				t.Errorf("strokes = %d after Clear, want 0", strokes.Len())
			}
			if emitter.count != 0 {
				t.Errorf("particles = %d after Clear, want 0", emitter.count)
			}
			if obs.clears != 1 {
				t.Errorf("clears = %d, want 1", obs.clears)
			}
		})
	}
}

func TestControllerClearDropsLiveSessions(t *testing.T) {
	f := newFixture(Pen)
	f.ctrl.PointerDown(1, ink.Point{X: 1, Y: 1})
	f.ctrl.PointerMove(1, ink.Point{X: 2, Y: 2})
	f.ctrl.Clear()
	f.ctrl.PointerUp(1, ink.Point{X: 2, Y: 2})

	if f.strokes.Len() != 0 || len(f.ctrl.Draft()) != 0 {
		t.Errorf("strokes=%d draft=%d after Clear", f.strokes.Len(), len(f.ctrl.Draft()))
	}
}

func TestControllerCursorIgnoresPointers(t *testing.T) {
	f := newFixture(Cursor)
	f.ctrl.PointerDown(ink.MousePointer, ink.Point{})
	f.ctrl.PointerUp(ink.MousePointer, ink.Point{})
	if f.strokes.Len() != 0 || f.engine.Emitting() {
		t.Error("cursor mode acted on pointer input")
	}
}

func TestControllerPointerCancel(t *testing.T) {
	f := newFixture(Pen)
	f.ctrl.PointerDown(4, ink.Point{})
	f.ctrl.PointerCancel(4)
	f.ctrl.PointerUp(4, ink.Point{})
	if f.strokes.Len() != 0 || len(f.ctrl.Draft()) != 0 {
		t.Error("cancelled session was committed")
	}

	f.ctrl.SetMode(MagicPen)
	f.ctrl.PointerDown(4, ink.Point{})
	f.ctrl.PointerCancel(4)
	if f.engine.Emitting() {
		t.Error("cancel did not stop emission")
	}
}

func TestControllerObserverModeChanges(t *testing.T) {
	f := newFixture(Pen)
	f.ctrl.SetMode(Pen)
	f.ctrl.SetMode(Eraser)
	f.ctrl.SetMode(Mode(99))
	if len(f.observer.changes) != 1 || f.observer.changes[0] != Eraser {
		t.Errorf("mode changes = %v, want [eraser]", f.observer.changes)
	}
	if f.ctrl.Mode() != Eraser {
		t.Errorf("Mode() = %v, want eraser", f.ctrl.Mode())
	}
}

func TestControllerSettings(t *testing.T) {
	f := newFixture(Pen)
	white := color.RGBA{255, 255, 255, 255}
	f.ctrl.SetBackground(white)
	if f.ctrl.Background() != white {
		t.Errorf("Background() = %v, want white", f.ctrl.Background())
	}
	f.ctrl.SetParticleKind(particle.Star)
	if f.ctrl.ParticleKind() != particle.Star || f.engine.Kind() != particle.Star {
		t.Error("SetParticleKind did not reach the engine")
	}

	c := NewController(nil, nil, nil, Options{Mode: Mode(-3)})
	if c.Mode() != Pen {
		t.Errorf("invalid initial mode = %v, want pen", c.Mode())
	}
	if c.Color() != DefaultPenColor || c.Background() != TransparentBackground {
		t.Error("defaults not applied")
	}
	c.PointerDown(1, ink.Point{})
	c.PointerUp(1, ink.Point{})
	c.SetMode(Eraser)
	c.PointerDown(1, ink.Point{})
	c.SetMode(MagicPen)
	c.PointerDown(1, ink.Point{})
	c.Clear()
}
