package annotate

import (
	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// coreObserver turns controller notifications into debug logs, metrics
// and mode change events. It runs with the canvas lock held, so it must
// never call back into the canvas.
type coreObserver struct {
	o *overlayImpl
}

var _ tool.Observer = coreObserver{}

func (c coreObserver) StrokeCommitted(s *ink.Stroke) {
	c.o.metrics.AddStrokesCommitted(1)
	c.o.logger.Debug("stroke committed",
		"id", s.ID,
		"points", len(s.Points),
		"highlighter", s.Attributes.Highlighter)
}

func (c coreObserver) StrokesErased(n int) {
	c.o.metrics.AddStrokesErased(n)
	c.o.logger.Debug("strokes erased", "count", n)
}

func (c coreObserver) ModeChanged(from, to tool.Mode) {
	c.o.metrics.IncrementModeChanges()
	c.o.logger.Debug("mode changed", "from", from, "to", to)
	c.o.emitEvent(EventModeChanged, to.String())
}

func (c coreObserver) Cleared(strokes int) {
	c.o.metrics.IncrementClears()
	c.o.logger.Debug("canvas cleared", "strokes", strokes)
}
