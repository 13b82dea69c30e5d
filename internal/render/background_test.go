package render

import (
	"image/color"
	"testing"
)

func TestNewSolidBackground(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want BackgroundMode
	}{
		{"white", color.RGBA{255, 255, 255, 255}, BackgroundModeSolid},
		{"black", color.RGBA{0, 0, 0, 255}, BackgroundModeSolid},
		{"capture", color.RGBA{0, 0, 0, 1}, BackgroundModeCapture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg := NewSolidBackground(tt.c)
			if bg.Mode() != tt.want {
				t.Errorf("Mode() = %v, want %v", bg.Mode(), tt.want)
			}
			if bg.Color() != tt.c {
				t.Errorf("Color() = %v, want %v", bg.Color(), tt.c)
			}
		})
	}
}

func TestNewBackgroundRenderer(t *testing.T) {
	tests := []struct {
		name        string
		c           color.RGBA
		transparent bool
		wantMode    BackgroundMode
		wantColor   color.RGBA
	}{
		{"transparent window, clear", color.RGBA{}, true, BackgroundModeNone, color.RGBA{}},
		{"transparent window, capture", color.RGBA{0, 0, 0, 1}, true, BackgroundModeCapture, color.RGBA{0, 0, 0, 1}},
		{"transparent window, white", color.RGBA{255, 255, 255, 255}, true, BackgroundModeSolid, color.RGBA{255, 255, 255, 255}},
		{"opaque window, clear", color.RGBA{}, false, BackgroundModeSolid, color.RGBA{0, 0, 0, 255}},
		{"opaque window, capture", color.RGBA{0, 0, 0, 1}, false, BackgroundModeSolid, color.RGBA{0, 0, 0, 255}},
		{"opaque window, translucent grey", color.RGBA{64, 64, 64, 128}, false, BackgroundModeSolid, color.RGBA{127, 127, 127, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg := NewBackgroundRenderer(tt.c, tt.transparent)
			if bg.Mode() != tt.wantMode {
				t.Errorf("Mode() = %v, want %v", bg.Mode(), tt.wantMode)
			}
			if sb, ok := bg.(*SolidBackground); ok && sb.Color() != tt.wantColor {
				t.Errorf("Color() = %v, want %v", sb.Color(), tt.wantColor)
			}
		})
	}
}

func TestBackgroundModeString(t *testing.T) {
	if got := BackgroundModeCapture.String(); got != "capture" {
		t.Errorf("String() = %q, want %q", got, "capture")
	}
	if got := BackgroundMode(42).String(); got != "unknown" {
		t.Errorf("String() = %q, want %q", got, "unknown")
	}
}
