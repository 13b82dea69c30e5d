package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// BackgroundMode specifies how the overlay background is rendered.
type BackgroundMode int

const (
	// BackgroundModeSolid draws an opaque or translucent colour.
	BackgroundModeSolid BackgroundMode = iota
	// BackgroundModeCapture draws an almost invisible colour so the overlay
	// still looks transparent but keeps receiving pointer input.
	BackgroundModeCapture
	// BackgroundModeNone draws nothing (fully transparent).
	BackgroundModeNone
)

func (m BackgroundMode) String() string {
	switch m {
	case BackgroundModeSolid:
		return "solid"
	case BackgroundModeCapture:
		return "capture"
	case BackgroundModeNone:
		return "none"
	default:
		return "unknown"
	}
}

// BackgroundRenderer renders the overlay background.
type BackgroundRenderer interface {
	// Draw renders the background to the screen.
	Draw(screen *ebiten.Image)
	// Mode returns the background mode.
	Mode() BackgroundMode
}

// SolidBackground fills the screen with one colour.
type SolidBackground struct {
	color color.RGBA
	mode  BackgroundMode
}

// NewSolidBackground creates a solid background renderer.
func NewSolidBackground(c color.RGBA) *SolidBackground {
	mode := BackgroundModeSolid
	if c.A < 8 {
		mode = BackgroundModeCapture
	}
	return &SolidBackground{color: c, mode: mode}
}

// Draw renders the background to the screen.
func (sb *SolidBackground) Draw(screen *ebiten.Image) {
	screen.Fill(sb.color)
}

// Mode returns BackgroundModeSolid or BackgroundModeCapture.
func (sb *SolidBackground) Mode() BackgroundMode {
	return sb.mode
}

// Color returns the background colour.
func (sb *SolidBackground) Color() color.RGBA {
	return sb.color
}

// NoneBackground renders no background.
type NoneBackground struct{}

// NewNoneBackground creates a none/transparent background renderer.
func NewNoneBackground() *NoneBackground {
	return &NoneBackground{}
}

// Draw clears the screen with fully transparent colour.
func (nb *NoneBackground) Draw(screen *ebiten.Image) {
	screen.Clear()
}

// Mode returns BackgroundModeNone.
func (nb *NoneBackground) Mode() BackgroundMode {
	return BackgroundModeNone
}

// NewBackgroundRenderer picks a renderer for c. Without a transparent
// framebuffer, translucent colours are drawn fully opaque since the
// window could not show through anyway.
func NewBackgroundRenderer(c color.RGBA, transparent bool) BackgroundRenderer {
	if !transparent {
		if c.A == 0 {
			return NewSolidBackground(color.RGBA{A: 255})
		}
		c.R = uint8(min(255, int(c.R)*255/int(c.A)))
		c.G = uint8(min(255, int(c.G)*255/int(c.A)))
		c.B = uint8(min(255, int(c.B)*255/int(c.A)))
		c.A = 255
		return NewSolidBackground(c)
	}
	if c.A == 0 {
		return NewNoneBackground()
	}
	return NewSolidBackground(c)
}
