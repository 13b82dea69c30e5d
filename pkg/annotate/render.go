//go:build !noebiten

package annotate

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/opd-ai/go-annotate/internal/export"
	"github.com/opd-ai/go-annotate/internal/render"
)

// captureScreen grabs the screen under the overlay for export backdrops.
var captureScreen = func(x, y, width, height int) (image.Image, error) {
	img, err := render.CaptureScreen(x, y, width, height)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// newRenderConfig maps the window settings onto the render host.
func (o *overlayImpl) newRenderConfig() render.Config {
	o.mu.RLock()
	win := o.cfg.Window
	o.mu.RUnlock()

	rc := render.DefaultConfig()
	rc.Width = win.Width
	rc.Height = win.Height
	rc.X = win.X
	rc.Y = win.Y
	if win.Title != "" {
		rc.Title = win.Title
	}
	rc.Transparent = win.Transparent
	rc.AlwaysOnTop = win.AlwaysOnTop
	rc.SkipTaskbar = win.SkipTaskbar
	if win.TPS > 0 {
		rc.TPS = win.TPS
	}
	return rc
}

// runRenderLoop opens the overlay window and blocks until it closes or
// ctx is cancelled.
func (o *overlayImpl) runRenderLoop(ctx context.Context) error {
	rc := o.newRenderConfig()
	if err := rc.Validate(); err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if warning := render.CheckTransparencySupport(rc.Transparent); warning != "" {
		o.logger.Warn(warning)
	}

	game := render.NewGame(rc, o.canvas)
	game.SetContext(ctx)
	game.SetErrorHandler(func(err error) {
		o.notifyError(fmt.Errorf("render update: %w", err))
	})
	game.SetActionHandler(o.handleAction)

	o.mu.Lock()
	game.SetBrushSizes(o.cfg.Ink.BrushSizes)
	o.game = game
	o.mu.Unlock()

	o.logger.Debug("opening overlay window",
		"width", rc.Width, "height", rc.Height,
		"transparent", rc.Transparent, "tps", rc.TPS)

	if err := game.Run(); err != nil && !errors.Is(err, render.ErrGameTerminated) {
		wrappedErr := fmt.Errorf("render loop error: %w", err)
		o.notifyError(wrappedErr)
		return wrappedErr
	}
	return nil
}

// handleAction runs host commands that need more than the canvas.
// It is called on the render goroutine, so exports are moved off it.
func (o *overlayImpl) handleAction(cmd render.Command) {
	var format export.Format
	switch cmd.Action {
	case render.ActionExportPNG:
		format = export.PNG
	case render.ActionExportPDF:
		format = export.PDF
	case render.ActionQuit:
		o.logger.Info("quit requested from keyboard")
		return
	default:
		o.logger.Debug("key command", "action", cmd.Action)
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				o.notifyError(fmt.Errorf("panic during export: %v", r))
			}
		}()
		// Export reports failures itself.
		_, _ = o.Export(format)
	}()
}
