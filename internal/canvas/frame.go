package canvas

import (
	"image/color"

	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/particle"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// Frame is a copy of everything a renderer needs to paint one frame.
// Reusing a Frame across calls to Snapshot avoids per-frame allocation.
type Frame struct {
	Width, Height float64
	Background    color.RGBA
	Mode          tool.Mode
	Passthrough   bool

	// StrokesVersion changes whenever Strokes changes.
	StrokesVersion uint64
	Strokes        []*ink.Stroke

	Draft     []ink.DrawCommand
	Particles []particle.Particle

	draftPoints []ink.Point
	hasStrokes  bool
}

// Snapshot copies the current state into f. The stroke list is copied
// only when it changed since f was last filled.
func (c *Canvas) Snapshot(f *Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f.Width, f.Height = c.width, c.height
	f.Background = c.ctrl.Background()
	f.Mode = c.ctrl.Mode()
	f.Passthrough = c.passthrough

	if v := c.strokes.Version(); !f.hasStrokes || v != f.StrokesVersion {
		f.Strokes = c.strokes.Strokes()
		f.StrokesVersion = v
		f.hasStrokes = true
	}

	f.Draft = f.Draft[:0]
	f.draftPoints = f.draftPoints[:0]
	for _, cmd := range c.ctrl.Draft() {
		start := len(f.draftPoints)
		f.draftPoints = append(f.draftPoints, cmd.Points...)
		cmd.Points = f.draftPoints[start:len(f.draftPoints):len(f.draftPoints)]
		f.Draft = append(f.Draft, cmd)
	}

	f.Particles = c.engine.AppendParticles(f.Particles[:0])
}
