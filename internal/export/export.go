// Package export writes the persisted strokes of a canvas to PNG or PDF.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/opd-ai/go-annotate/internal/ink"
)

// Format selects the export file type.
type Format int

const (
	// PNG is a raster image at surface resolution.
	PNG Format = iota
	// PDF is a single vector page sized to the surface.
	PDF
)

// String returns the lower-case format name, which is also its extension.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case PDF:
		return "pdf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat accepts "png" and "pdf" in any case, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG, nil
	case "pdf":
		return PDF, nil
	default:
		return PNG, fmt.Errorf("unknown export format: %q", s)
	}
}

// Options describes the exported page.
type Options struct {
	// Width and Height are the page size in surface pixels.
	Width, Height int
	// Background fills the page. A transparent background leaves PNG
	// pixels clear and PDF pages white.
	Background color.RGBA
	// Backdrop, when set, is drawn under the ink, scaled to the page.
	Backdrop image.Image
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid export size %dx%d", o.Width, o.Height)
	}
	return nil
}

// Exporter writes timestamped files into a directory.
type Exporter struct {
	// Dir is the output directory. Empty means the working directory.
	Dir string
	// Prefix starts every file name. Empty means "annotation".
	Prefix string
	// Now returns the timestamp used in file names.
	Now func() time.Time
}

// Path returns the file name an export at t would use.
func (e *Exporter) Path(format Format, t time.Time) string {
	prefix := e.Prefix
	if prefix == "" {
		prefix = "annotation"
	}
	name := prefix + "-" + t.Format("20060102-150405.000") + format.Ext()
	return filepath.Join(e.Dir, name)
}

// Export writes strokes to a new file and returns its path.
func (e *Exporter) Export(format Format, strokes []*ink.Stroke, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	if e.Dir != "" {
		if err := os.MkdirAll(e.Dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, path, err := createUnique(e.Path(format, now()))
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	switch format {
	case PDF:
		err = WritePDF(f, strokes, opts)
	default:
		err = WritePNG(f, strokes, opts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// maxNameAttempts bounds the "-N" suffixes tried for one timestamp.
const maxNameAttempts = 1000

// createUnique creates path exclusively. When it exists, "-1", "-2" and so
// on are inserted before the extension until a free name is found.
func createUnique(path string) (*os.File, string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	candidate := path
	for n := 1; ; n++ {
		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, candidate, nil
		}
		if !errors.Is(err, os.ErrExist) || n >= maxNameAttempts {
			return nil, "", err
		}
		candidate = base + "-" + strconv.Itoa(n) + ext
	}
}
