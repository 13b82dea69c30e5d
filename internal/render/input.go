package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-annotate/internal/ink"
)

// PointerState is the position and button state of one pointer in a frame.
type PointerState struct {
	ID      ink.PointerID
	X, Y    float64
	Pressed bool
}

// InputSource reports the pointers present in the current frame.
type InputSource interface {
	AppendPointers(dst []PointerState) []PointerState
}

// PointerSink receives pointer transitions. *canvas.Canvas satisfies it.
type PointerSink interface {
	PointerDown(id ink.PointerID, p ink.Point)
	PointerMove(id ink.PointerID, p ink.Point)
	PointerUp(id ink.PointerID, p ink.Point)
}

// EbitenInput reads the left mouse button and all active touches.
// Touch ids are shifted by one so they never collide with ink.MousePointer.
type EbitenInput struct {
	touches []ebiten.TouchID
}

// AppendPointers implements InputSource.
func (in *EbitenInput) AppendPointers(dst []PointerState) []PointerState {
	mx, my := ebiten.CursorPosition()
	dst = append(dst, PointerState{
		ID:      ink.MousePointer,
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	})

	in.touches = ebiten.AppendTouchIDs(in.touches[:0])
	for _, id := range in.touches {
		tx, ty := ebiten.TouchPosition(id)
		dst = append(dst, PointerState{
			ID:      ink.PointerID(id) + 1,
			X:       float64(tx),
			Y:       float64(ty),
			Pressed: true,
		})
	}
	return dst
}

type pointerTrack struct {
	x, y float64
	down bool
	seen uint64
}

// Poller turns per-frame pointer state into down/move/up transitions.
type Poller struct {
	src    InputSource
	tracks map[ink.PointerID]*pointerTrack
	buf    []PointerState
	frame  uint64
}

// NewPoller creates a Poller reading from src.
func NewPoller(src InputSource) *Poller {
	return &Poller{
		src:    src,
		tracks: make(map[ink.PointerID]*pointerTrack),
	}
}

// Poll reads the source once and forwards every transition to sink.
// A pointer that was down and disappears from the source is released at
// its last known position.
func (p *Poller) Poll(sink PointerSink) {
	p.frame++
	p.buf = p.src.AppendPointers(p.buf[:0])

	for _, st := range p.buf {
		tr, ok := p.tracks[st.ID]
		if !ok {
			tr = &pointerTrack{x: st.X, y: st.Y}
			p.tracks[st.ID] = tr
		}
		tr.seen = p.frame
		pt := ink.Point{X: st.X, Y: st.Y}
		moved := tr.x != st.X || tr.y != st.Y
		tr.x, tr.y = st.X, st.Y

		switch {
		case st.Pressed && !tr.down:
			tr.down = true
			sink.PointerDown(st.ID, pt)
		case !st.Pressed && tr.down:
			tr.down = false
			sink.PointerUp(st.ID, pt)
		case moved:
			sink.PointerMove(st.ID, pt)
		}
	}

	for id, tr := range p.tracks {
		if tr.seen == p.frame {
			continue
		}
		if tr.down {
			sink.PointerUp(id, ink.Point{X: tr.x, Y: tr.y})
		}
		delete(p.tracks, id)
	}
}

// Release ends every pointer that is currently down.
func (p *Poller) Release(sink PointerSink) {
	for id, tr := range p.tracks {
		if tr.down {
			sink.PointerUp(id, ink.Point{X: tr.x, Y: tr.y})
		}
		delete(p.tracks, id)
	}
}

// Down returns the number of pointers currently held down.
func (p *Poller) Down() int {
	n := 0
	for _, tr := range p.tracks {
		if tr.down {
			n++
		}
	}
	return n
}
