package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/opd-ai/go-annotate/internal/ink"
)

// CreationDate is stamped into every PDF. Zero uses the current time.
var CreationDate time.Time

// WritePDF writes strokes as vector paths on a single page whose size in
// points equals the surface size in pixels.
func WritePDF(w io.Writer, strokes []*ink.Stroke, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	width, height := float64(opts.Width), float64(opts.Height)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("go-annotate", true)
	if !CreationDate.IsZero() {
		pdf.SetCreationDate(CreationDate)
	}
	pdf.AddPage()

	if opts.Backdrop != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, opts.Backdrop); err != nil {
			return fmt.Errorf("failed to encode backdrop: %w", err)
		}
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("backdrop", imgOpts, &buf)
		pdf.ImageOptions("backdrop", 0, 0, width, height, false, imgOpts, 0, "")
	}
	if bg := opts.Background; bg.A > 1 {
		pdf.SetAlpha(float64(bg.A)/255, "Normal")
		pdf.SetFillColor(unpremultiply(bg.R, bg.A), unpremultiply(bg.G, bg.A), unpremultiply(bg.B, bg.A))
		pdf.Rect(0, 0, width, height, "F")
	}

	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	for _, s := range strokes {
		drawStroke(pdf, s)
	}
	pdf.SetAlpha(1, "Normal")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func drawStroke(pdf *gofpdf.Fpdf, s *ink.Stroke) {
	pts := s.Curve
	if len(pts) == 0 {
		pts = s.Points
	}
	if len(pts) == 0 || s.Attributes.Width <= 0 {
		return
	}
	c := s.Attributes.Color
	pdf.SetAlpha(float64(s.Attributes.InkColor().A)/255, "Normal")

	if len(pts) == 1 {
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.Circle(pts[0].X, pts[0].Y, s.Attributes.Width/2, "F")
		return
	}

	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	pdf.SetLineWidth(s.Attributes.Width)
	pdf.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		pdf.LineTo(p.X, p.Y)
	}
	pdf.DrawPath("D")
}

func unpremultiply(v, a uint8) int {
	if a == 0 {
		return 0
	}
	return min(255, int(v)*255/int(a))
}
