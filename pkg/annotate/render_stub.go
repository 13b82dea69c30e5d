//go:build noebiten

package annotate

import (
	"context"
	"errors"
	"image"
)

var captureScreen = func(x, y, width, height int) (image.Image, error) {
	return nil, errors.New("screen capture is not available in noebiten builds")
}

// runRenderLoop has no window to run in noebiten builds and only waits
// for cancellation.
func (o *overlayImpl) runRenderLoop(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
