package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/opd-ai/go-annotate/internal/ink"
)

// capSegments is the number of edges of the round caps and joins.
const capSegments = 16

// Rasterize paints strokes onto a new image of the page size.
func Rasterize(strokes []*ink.Stroke, opts Options) (*image.RGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	page := image.Rect(0, 0, opts.Width, opts.Height)
	dst := image.NewRGBA(page)

	if opts.Backdrop != nil {
		draw.ApproxBiLinear.Scale(dst, page, opts.Backdrop, opts.Backdrop.Bounds(), draw.Src, nil)
	}
	if opts.Background.A > 1 {
		draw.Draw(dst, page, image.NewUniform(opts.Background), image.Point{}, draw.Over)
	}

	var z vector.Rasterizer
	for _, s := range strokes {
		rasterizeStroke(&z, dst, s)
	}
	return dst, nil
}

// rasterizeStroke fills the stroke outline inside its own bounding box.
// Segments are quads and every vertex gets a disc for round caps and joins.
// All shapes share one winding so overlaps saturate instead of cancelling.
func rasterizeStroke(z *vector.Rasterizer, dst *image.RGBA, s *ink.Stroke) {
	pts := s.Curve
	if len(pts) == 0 {
		pts = s.Points
	}
	if len(pts) == 0 || s.Attributes.Width <= 0 {
		return
	}

	b := s.Bounds()
	if len(s.Curve) == 0 {
		b = boundsOf(pts).Inset(s.Attributes.Width / 2)
	}
	area := image.Rect(
		int(math.Floor(b.MinX)), int(math.Floor(b.MinY)),
		int(math.Ceil(b.MaxX))+1, int(math.Ceil(b.MaxY))+1,
	).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}

	z.Reset(area.Dx(), area.Dy())
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	r := s.Attributes.Width / 2

	for i, p := range pts {
		disc(z, p.X-ox, p.Y-oy, r)
		if i == 0 {
			continue
		}
		q := pts[i-1]
		quad(z, q.X-ox, q.Y-oy, p.X-ox, p.Y-oy, r)
	}

	src := image.NewUniform(color.NRGBA(s.Attributes.InkColor()))
	z.Draw(dst, area, src, image.Point{})
}

// quad adds the rectangle of half-width r around segment a-b.
func quad(z *vector.Rasterizer, ax, ay, bx, by, r float64) {
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*r, dx/l*r
	z.MoveTo(float32(ax+nx), float32(ay+ny))
	z.LineTo(float32(bx+nx), float32(by+ny))
	z.LineTo(float32(bx-nx), float32(by-ny))
	z.LineTo(float32(ax-nx), float32(ay-ny))
	z.ClosePath()
}

// disc adds a circle polygon with the same winding as quad.
func disc(z *vector.Rasterizer, cx, cy, r float64) {
	z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < capSegments; i++ {
		a := -2 * math.Pi * float64(i) / capSegments
		z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	z.ClosePath()
}

func boundsOf(pts []ink.Point) ink.Rect {
	r := ink.Rect{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// WritePNG rasterizes strokes and encodes the page as PNG.
func WritePNG(w io.Writer, strokes []*ink.Stroke, opts Options) error {
	img, err := Rasterize(strokes, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
