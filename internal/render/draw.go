package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/particle"
)

// emptySubImage is a 1x1 white image used as the source for all triangles.
var emptySubImage = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

// ellipseSegments is the number of edges used to approximate petals and dots.
const ellipseSegments = 20

// starOutline is the star glyph outline centred on the origin and scaled
// so that its width is 1.
var starOutline = func() []ink.Point {
	raw := []ink.Point{
		{X: 12, Y: 2}, {X: 13.5, Y: 6}, {X: 17.5, Y: 6}, {X: 14, Y: 8.5},
		{X: 15.5, Y: 12.5}, {X: 12, Y: 10}, {X: 8.5, Y: 12.5}, {X: 10, Y: 8.5},
		{X: 6.5, Y: 6}, {X: 10.5, Y: 6},
	}
	const cx, cy, w = 12.0, 7.25, 11.0
	for i := range raw {
		raw[i].X = (raw[i].X - cx) / w
		raw[i].Y = (raw[i].Y - cy) / w
	}
	return raw
}()

// rotate turns p around the origin by deg degrees and moves it to (cx, cy).
func rotate(p ink.Point, deg, cx, cy float64) ink.Point {
	s, c := math.Sincos(deg * math.Pi / 180)
	return ink.Point{X: cx + p.X*c - p.Y*s, Y: cy + p.X*s + p.Y*c}
}

// starPoints returns the outline of a star of the given size centred on
// (cx, cy) and rotated by deg degrees.
func starPoints(dst []ink.Point, cx, cy, size, deg float64) []ink.Point {
	for _, p := range starOutline {
		dst = append(dst, rotate(ink.Point{X: p.X * size, Y: p.Y * size}, deg, cx, cy))
	}
	return dst
}

// ellipsePoints returns a polygon approximating an ellipse with radii rx,
// ry centred on (cx, cy) and rotated by deg degrees.
func ellipsePoints(dst []ink.Point, cx, cy, rx, ry, deg float64) []ink.Point {
	for i := 0; i < ellipseSegments; i++ {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		p := ink.Point{X: rx * math.Cos(a), Y: ry * math.Sin(a)}
		dst = append(dst, rotate(p, deg, cx, cy))
	}
	return dst
}

// particleOutline returns the polygon for p. Particle positions are the
// top-left corner of the shape's box; rotation is around the box centre.
func particleOutline(dst []ink.Point, p particle.Particle) []ink.Point {
	cx := p.X + p.Size/2
	cy := p.Y + p.Height()/2
	if p.Kind == particle.Star {
		return starPoints(dst, cx, cy, p.Size, p.Rotation)
	}
	return ellipsePoints(dst, cx, cy, p.Size/2, p.Height()/2, p.Rotation)
}

// setVertexColors applies a premultiplied colour to every vertex.
func setVertexColors(vertices []ebiten.Vertex, clr color.RGBA, alpha float64) {
	a := float32(float64(clr.A) / 255 * alpha)
	r := float32(clr.R) / 255 * a
	g := float32(clr.G) / 255 * a
	b := float32(clr.B) / 255 * a
	for i := range vertices {
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}
}

// painter draws ink and particles with ebiten's vector package. The vertex
// and point buffers are reused between calls.
type painter struct {
	vertices []ebiten.Vertex
	indices  []uint16
	points   []ink.Point
	scratch  *ebiten.Image
	stats    *RenderStats
}

func (pt *painter) drawTriangles(dst *ebiten.Image, opts *ebiten.DrawTrianglesOptions) {
	dst.DrawTriangles(pt.vertices, pt.indices, emptySubImage, opts)
	if pt.stats != nil {
		pt.stats.RecordDrawCall(len(pt.vertices))
	}
}

// scratchFor returns a cleared offscreen image the size of dst.
func (pt *painter) scratchFor(dst *ebiten.Image) *ebiten.Image {
	b := dst.Bounds()
	if pt.scratch == nil || pt.scratch.Bounds().Dx() != b.Dx() || pt.scratch.Bounds().Dy() != b.Dy() {
		if pt.scratch != nil {
			pt.scratch.Deallocate()
		}
		pt.scratch = ebiten.NewImage(b.Dx(), b.Dy())
	} else {
		pt.scratch.Clear()
	}
	return pt.scratch
}

// command draws one ink command. Translucent ink is drawn opaque onto a
// scratch image and composited once so overlapping segments do not darken.
func (pt *painter) command(dst *ebiten.Image, cmd ink.DrawCommand) {
	if len(cmd.Points) == 0 {
		return
	}
	if cmd.Color.A == 255 {
		pt.opaque(dst, cmd)
		return
	}
	layer := pt.scratchFor(dst)
	opaque := cmd
	opaque.Color.A = 255
	pt.opaque(layer, opaque)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(cmd.Color.A) / 255)
	dst.DrawImage(layer, op)
}

func (pt *painter) opaque(dst *ebiten.Image, cmd ink.DrawCommand) {
	if cmd.Kind == ink.CommandDot || len(cmd.Points) == 1 {
		p := cmd.Points[0]
		r := cmd.Width / 2
		pt.points = ellipsePoints(pt.points[:0], p.X, p.Y, r, r, 0)
		pt.fill(dst, pt.points, cmd.Color, 1)
		return
	}

	var path vector.Path
	path.MoveTo(float32(cmd.Points[0].X), float32(cmd.Points[0].Y))
	for _, p := range cmd.Points[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	opts := &vector.StrokeOptions{
		Width:    float32(cmd.Width),
		LineCap:  vector.LineCapRound,
		LineJoin: vector.LineJoinRound,
	}
	pt.vertices, pt.indices = path.AppendVerticesAndIndicesForStroke(pt.vertices[:0], pt.indices[:0], opts)
	setVertexColors(pt.vertices, cmd.Color, 1)
	pt.drawTriangles(dst, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// stroke draws a finalized stroke along its fitted curve.
func (pt *painter) stroke(dst *ebiten.Image, s *ink.Stroke) {
	pts := s.Curve
	if len(pts) == 0 {
		pts = s.Points
	}
	kind := ink.CommandPolyline
	if len(pts) == 1 {
		kind = ink.CommandDot
	}
	pt.command(dst, ink.DrawCommand{
		Kind:   kind,
		Points: pts,
		Width:  s.Attributes.Width,
		Color:  s.Attributes.InkColor(),
	})
}

// particle draws p at its current opacity.
func (pt *painter) particle(dst *ebiten.Image, p particle.Particle) {
	if p.Opacity <= 0 {
		return
	}
	pt.points = particleOutline(pt.points[:0], p)
	pt.fill(dst, pt.points, p.Color, math.Min(p.Opacity, 1))
}

func (pt *painter) fill(dst *ebiten.Image, poly []ink.Point, clr color.RGBA, alpha float64) {
	if len(poly) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()
	pt.vertices, pt.indices = path.AppendVerticesAndIndicesForFilling(pt.vertices[:0], pt.indices[:0])
	setVertexColors(pt.vertices, clr, alpha)
	pt.drawTriangles(dst, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
	})
}
