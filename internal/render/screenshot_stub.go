//go:build !linux

package render

import (
	"errors"
	"image"
)

// CaptureScreen is only available with X11 on Linux.
func CaptureScreen(x, y, width, height int) (*image.RGBA, error) {
	return nil, errors.New("screen capture is only available on Linux")
}
