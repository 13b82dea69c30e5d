//go:build linux

package render

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// CaptureScreen grabs a region of the X11 root window. The region is
// clamped to the screen. Exports use it as a backdrop under the ink.
func CaptureScreen(x, y, width, height int) (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		return nil, fmt.Errorf("no screens found")
	}
	screen := setup.Roots[0]

	r := clampRegion(image.Rect(x, y, x+width, y+height),
		int(screen.WidthInPixels), int(screen.HeightInPixels))
	if r.Empty() {
		return nil, fmt.Errorf("invalid capture region %dx%d at (%d,%d)", width, height, x, y)
	}

	reply, err := xproto.GetImage(
		conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(screen.Root),
		int16(r.Min.X), int16(r.Min.Y),
		uint16(r.Dx()), uint16(r.Dy()),
		0xFFFFFFFF,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen region: %w", err)
	}

	switch reply.Depth {
	case 24, 32:
		return bgrxToRGBA(reply.Data, r.Dx(), r.Dy()), nil
	default:
		return nil, fmt.Errorf("unsupported color depth: %d", reply.Depth)
	}
}
