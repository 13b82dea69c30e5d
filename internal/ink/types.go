// Package ink implements multi-pointer ink capture for go-annotate.
// It tracks in-progress stroke sessions per pointer, rebuilds the draft
// display list from those sessions, finalizes completed sessions into
// immutable strokes and keeps the persisted stroke collection.
package ink

import (
	"image/color"
	"math"
)

// PointerID identifies one active contact.
// Touch contacts use host-assigned positive identifiers.
type PointerID int

// MousePointer is the reserved identifier of the pointer device.
// A device has at most one active mouse session.
const MousePointer PointerID = -1

// Point is a position in surface coordinates.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// HighlighterOpacity is the opacity multiplier applied to highlighter ink.
const HighlighterOpacity = 0.5

// Attributes holds the drawing attributes applied to a stroke.
// It is a value type, copied onto sessions and strokes.
type Attributes struct {
	Color       color.RGBA
	Width       float64
	Highlighter bool
}

// Opacity returns the opacity multiplier implied by the highlighter flag.
func (a Attributes) Opacity() float64 {
	if a.Highlighter {
		return HighlighterOpacity
	}
	return 1
}

// InkColor returns the colour with the highlighter opacity applied to alpha.
func (a Attributes) InkColor() color.RGBA {
	c := a.Color
	c.A = uint8(float64(c.A)*a.Opacity() + 0.5)
	return c
}

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Inset returns r grown by d on every side. Negative d shrinks it.
func (r Rect) Inset(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

func boundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// distanceToSegment returns the distance from p to the segment ab.
func distanceToSegment(p, a, b Point) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Point{X: a.X + t*abx, Y: a.Y + t*aby})
}
