package ink

import (
	"time"

	"github.com/google/uuid"
)

// Stroke is a finalized, immutable ink stroke.
type Stroke struct {
	// ID uniquely identifies the stroke within a collection.
	ID string
	// Points are the raw input points in arrival order.
	Points []Point
	// Curve is the fitted polyline used for rendering, export and hit testing.
	Curve []Point
	// Attributes is the snapshot captured when the stroke was begun.
	Attributes Attributes
	// CreatedAt is the finalization time.
	CreatedAt time.Time
}

// Bounds returns the bounding rectangle of the curve grown by half the
// stroke width.
func (s *Stroke) Bounds() Rect {
	return boundsOf(s.Curve).Inset(s.Attributes.Width / 2)
}

// DefaultCurveSamples is the number of curve points generated per input
// segment when fitting.
const DefaultCurveSamples = 8

// Finalizer converts completed sessions into strokes.
type Finalizer struct {
	// Samples is the number of curve points per input segment.
	// Values below 1 use DefaultCurveSamples.
	Samples int
	// Now returns the creation timestamp. Defaults to time.Now.
	Now func() time.Time
	// NewID returns a fresh stroke identifier. Defaults to a random UUID.
	NewID func() string
}

// Finalize builds a stroke from points and attrs. It returns false when
// points is empty. The points are copied.
func (f *Finalizer) Finalize(points []Point, attrs Attributes) (*Stroke, bool) {
	if len(points) == 0 {
		return nil, false
	}
	raw := make([]Point, len(points))
	copy(raw, points)

	s := &Stroke{
		ID:         f.newID(),
		Points:     raw,
		Curve:      FitCurve(raw, f.samples()),
		Attributes: attrs,
		CreatedAt:  f.now(),
	}
	return s, true
}

func (f *Finalizer) samples() int {
	if f == nil || f.Samples < 1 {
		return DefaultCurveSamples
	}
	return f.Samples
}

func (f *Finalizer) now() time.Time {
	if f == nil || f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

func (f *Finalizer) newID() string {
	if f == nil || f.NewID == nil {
		return uuid.NewString()
	}
	return f.NewID()
}

// FitCurve returns a uniform Catmull-Rom spline through points with
// samples points per segment. The spline passes through every input
// point. Sequences shorter than three points are returned as a copy.
func FitCurve(points []Point, samples int) []Point {
	if len(points) < 3 || samples < 2 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}
	out := make([]Point, 0, (len(points)-1)*samples+1)
	last := len(points) - 1
	for i := 0; i < last; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, last)]
		for j := 0; j < samples; j++ {
			t := float64(j) / float64(samples)
			out = append(out, catmullRom(p0, p1, p2, p3, t))
		}
	}
	return append(out, points[last])
}

func catmullRom(p0, p1, p2, p3 Point, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	blend := func(a, b, c, d float64) float64 {
		return 0.5 * (2*b + (c-a)*t + (2*a-5*b+4*c-d)*t2 + (3*b-a-3*c+d)*t3)
	}
	return Point{
		X: blend(p0.X, p1.X, p2.X, p3.X),
		Y: blend(p0.Y, p1.Y, p2.Y, p3.Y),
	}
}
