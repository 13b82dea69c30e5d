// Package tool implements the tool mode controller that routes pointer
// input to the ink path or the particle engine.
package tool

import (
	"fmt"
	"strings"
)

// Mode is the active tool.
type Mode int

const (
	// Cursor passes pointer input through to the windows below the overlay.
	Cursor Mode = iota
	// Pen draws opaque ink.
	Pen
	// Highlighter draws wide translucent ink.
	Highlighter
	// Eraser removes persisted strokes under the pointer.
	Eraser
	// MagicPen emits particles at the pointer.
	MagicPen

	modeCount
)

// Modes lists every mode in declaration order.
var Modes = [...]Mode{Cursor, Pen, Highlighter, Eraser, MagicPen}

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case Cursor:
		return "cursor"
	case Pen:
		return "pen"
	case Highlighter:
		return "highlighter"
	case Eraser:
		return "eraser"
	case MagicPen:
		return "magic"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= Cursor && m < modeCount
}

// Inks reports whether pointer input in m starts stroke sessions.
func (m Mode) Inks() bool {
	return m == Pen || m == Highlighter
}

// ParseMode converts a name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cursor", "pointer", "select":
		return Cursor, nil
	case "pen":
		return Pen, nil
	case "highlighter", "marker":
		return Highlighter, nil
	case "eraser":
		return Eraser, nil
	case "magic", "magicpen", "magic_pen", "magic-pen":
		return MagicPen, nil
	default:
		return Cursor, fmt.Errorf("unknown mode: %q", s)
	}
}
