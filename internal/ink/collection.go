package ink

// HitTester decides whether a point erases a stroke.
type HitTester interface {
	Hit(s *Stroke, p Point) bool
}

// HitTesterFunc adapts a function to HitTester.
type HitTesterFunc func(s *Stroke, p Point) bool

// Hit calls f(s, p).
func (f HitTesterFunc) Hit(s *Stroke, p Point) bool {
	return f(s, p)
}

// DefaultEraserRadius is the eraser radius used when none is configured.
const DefaultEraserRadius = 6.0

// RadiusHitTester hits a stroke when the point lies within Radius of its
// painted area.
type RadiusHitTester struct {
	Radius float64
}

// Hit reports whether p lies within Radius plus half the stroke width of
// any segment of the stroke curve.
func (h RadiusHitTester) Hit(s *Stroke, p Point) bool {
	if s == nil || len(s.Curve) == 0 {
		return false
	}
	reach := h.Radius + s.Attributes.Width/2
	if !s.Bounds().Inset(h.Radius).Contains(p) {
		return false
	}
	if len(s.Curve) == 1 {
		return p.Dist(s.Curve[0]) <= reach
	}
	for i := 0; i < len(s.Curve)-1; i++ {
		if distanceToSegment(p, s.Curve[i], s.Curve[i+1]) <= reach {
			return true
		}
	}
	return false
}

// Collection holds the persisted strokes of a canvas in commit order.
//
// Collection is not safe for concurrent use.
type Collection struct {
	strokes []*Stroke
	hit     HitTester
	version uint64
}

// NewCollection creates an empty collection using hit for erasing.
// A nil hit uses RadiusHitTester with DefaultEraserRadius.
func NewCollection(hit HitTester) *Collection {
	if hit == nil {
		hit = RadiusHitTester{Radius: DefaultEraserRadius}
	}
	return &Collection{hit: hit}
}

// SetHitTester replaces the eraser hit test. Nil is ignored.
func (c *Collection) SetHitTester(hit HitTester) {
	if hit != nil {
		c.hit = hit
	}
}

// Commit appends s. Nil strokes are ignored.
func (c *Collection) Commit(s *Stroke) {
	if s == nil {
		return
	}
	c.strokes = append(c.strokes, s)
	c.version++
}

// Remove deletes the stroke with the given id.
func (c *Collection) Remove(id string) bool {
	for i, s := range c.strokes {
		if s.ID == id {
			last := len(c.strokes) - 1
			copy(c.strokes[i:], c.strokes[i+1:])
			c.strokes[last] = nil
			c.strokes = c.strokes[:last]
			c.version++
			return true
		}
	}
	return false
}

// RemoveStrokesIntersecting deletes every stroke hit by p and returns how
// many were removed.
func (c *Collection) RemoveStrokesIntersecting(p Point) int {
	kept := c.strokes[:0]
	removed := 0
	for _, s := range c.strokes {
		if c.hit.Hit(s, p) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(c.strokes); i++ {
		c.strokes[i] = nil
	}
	c.strokes = kept
	if removed > 0 {
		c.version++
	}
	return removed
}

// Clear removes every stroke and returns how many were removed.
func (c *Collection) Clear() int {
	n := len(c.strokes)
	if n == 0 {
		return 0
	}
	clear(c.strokes)
	c.strokes = c.strokes[:0]
	c.version++
	return n
}

// Len returns the number of strokes.
func (c *Collection) Len() int {
	return len(c.strokes)
}

// Strokes returns a copy of the stroke list. The strokes themselves are
// immutable and shared.
func (c *Collection) Strokes() []*Stroke {
	out := make([]*Stroke, len(c.strokes))
	copy(out, c.strokes)
	return out
}

// Version increases on every mutation.
func (c *Collection) Version() uint64 {
	return c.version
}
