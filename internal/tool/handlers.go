package tool

import "github.com/opd-ai/go-annotate/internal/ink"

// cursorHandler passes input through the overlay and ignores pointers.
type cursorHandler struct{}

func (cursorHandler) enter(c *Controller) { c.capture(true) }

func (cursorHandler) exit(*Controller) {}

func (cursorHandler) down(*Controller, ink.PointerID, ink.Point) {}

func (cursorHandler) move(*Controller, ink.PointerID, ink.Point) {}

func (cursorHandler) up(*Controller, ink.PointerID, ink.Point) {}

// inkHandler records one stroke session per pointer.
type inkHandler struct {
	highlighter bool
}

func (h inkHandler) enter(c *Controller) {
	c.capture(false)
	c.attrs.Highlighter = h.highlighter
	if h.highlighter {
		c.attrs.Width = c.highlighterSize
	} else {
		c.attrs.Width = c.penSize
	}
}

// exit commits every live session with the attributes it began with.
func (inkHandler) exit(c *Controller) {
	for _, s := range c.sessions.Drain() {
		c.commit(s)
	}
	c.draft.Reset()
}

func (inkHandler) down(c *Controller, id ink.PointerID, p ink.Point) {
	if c.sessions.Begin(id, p, c.attrs) {
		c.draft.Invalidate()
	}
}

func (inkHandler) move(c *Controller, id ink.PointerID, p ink.Point) {
	if c.sessions.Update(id, p) {
		c.draft.Invalidate()
	}
}

func (inkHandler) up(c *Controller, id ink.PointerID, _ ink.Point) {
	s := c.sessions.End(id)
	if s.Empty() {
		return
	}
	c.draft.Invalidate()
	c.commit(s)
}

// eraserHandler removes persisted strokes under pressed pointers.
// It never starts sessions.
type eraserHandler struct{}

func (eraserHandler) enter(c *Controller) { c.capture(false) }

func (eraserHandler) exit(c *Controller) { c.releaseAll() }

func (eraserHandler) down(c *Controller, id ink.PointerID, p ink.Point) {
	c.pressed[id] = struct{}{}
	c.erase(p)
}

func (eraserHandler) move(c *Controller, id ink.PointerID, p ink.Point) {
	if _, ok := c.pressed[id]; ok {
		c.erase(p)
	}
}

func (eraserHandler) up(c *Controller, id ink.PointerID, _ ink.Point) {
	delete(c.pressed, id)
}

// magicHandler moves the emission point with pressed pointers and emits
// while at least one pointer is down.
type magicHandler struct{}

func (magicHandler) enter(c *Controller) { c.capture(false) }

// exit stops emission; particles in flight finish on their own.
func (magicHandler) exit(c *Controller) {
	c.releaseAll()
	if c.emitter != nil {
		c.emitter.StopEmitting()
	}
}

func (magicHandler) down(c *Controller, id ink.PointerID, p ink.Point) {
	c.pressed[id] = struct{}{}
	if c.emitter == nil {
		return
	}
	c.emitter.SetEmitPosition(p.X, p.Y)
	c.emitter.StartEmitting()
}

func (magicHandler) move(c *Controller, id ink.PointerID, p ink.Point) {
	if _, ok := c.pressed[id]; !ok || c.emitter == nil {
		return
	}
	c.emitter.SetEmitPosition(p.X, p.Y)
}

func (magicHandler) up(c *Controller, id ink.PointerID, _ ink.Point) {
	if _, ok := c.pressed[id]; !ok {
		return
	}
	delete(c.pressed, id)
	if len(c.pressed) == 0 && c.emitter != nil {
		c.emitter.StopEmitting()
	}
}
