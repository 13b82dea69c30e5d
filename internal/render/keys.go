package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a host command triggered from the keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionCursor
	ActionPen
	ActionHighlighter
	ActionEraser
	ActionMagicPen
	ActionClear
	ActionBrushSmaller
	ActionBrushLarger
	ActionColor
	ActionCycleBackground
	ActionToggleParticles
	ActionExportPNG
	ActionExportPDF
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:            "none",
	ActionCursor:          "cursor",
	ActionPen:             "pen",
	ActionHighlighter:     "highlighter",
	ActionEraser:          "eraser",
	ActionMagicPen:        "magic",
	ActionClear:           "clear",
	ActionBrushSmaller:    "brush-smaller",
	ActionBrushLarger:     "brush-larger",
	ActionColor:           "color",
	ActionCycleBackground: "background",
	ActionToggleParticles: "particles",
	ActionExportPNG:       "export-png",
	ActionExportPDF:       "export-pdf",
	ActionQuit:            "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Command is an Action with its argument. Index selects the palette entry
// for ActionColor.
type Command struct {
	Action Action
	Index  int
}

// Binding maps a key plus exact modifier state to a command.
type Binding struct {
	Key     ebiten.Key
	Ctrl    bool
	Shift   bool
	Command Command
}

// KeySource reports keyboard state.
type KeySource interface {
	IsKeyJustPressed(key ebiten.Key) bool
	IsKeyPressed(key ebiten.Key) bool
}

// EbitenKeys reads the keyboard through ebiten and inpututil.
type EbitenKeys struct{}

// IsKeyJustPressed implements KeySource.
func (EbitenKeys) IsKeyJustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }

// IsKeyPressed implements KeySource.
func (EbitenKeys) IsKeyPressed(key ebiten.Key) bool { return ebiten.IsKeyPressed(key) }

// DefaultBindings returns the standard keyboard shortcuts.
func DefaultBindings() []Binding {
	b := []Binding{
		{Key: ebiten.KeyC, Command: Command{Action: ActionCursor}},
		{Key: ebiten.KeyP, Command: Command{Action: ActionPen}},
		{Key: ebiten.KeyH, Command: Command{Action: ActionHighlighter}},
		{Key: ebiten.KeyE, Command: Command{Action: ActionEraser}},
		{Key: ebiten.KeyM, Command: Command{Action: ActionMagicPen}},
		{Key: ebiten.KeyDelete, Command: Command{Action: ActionClear}},
		{Key: ebiten.KeyBackspace, Command: Command{Action: ActionClear}},
		{Key: ebiten.KeyBracketLeft, Command: Command{Action: ActionBrushSmaller}},
		{Key: ebiten.KeyBracketRight, Command: Command{Action: ActionBrushLarger}},
		{Key: ebiten.KeyB, Command: Command{Action: ActionCycleBackground}},
		{Key: ebiten.KeyK, Command: Command{Action: ActionToggleParticles}},
		{Key: ebiten.KeyS, Ctrl: true, Command: Command{Action: ActionExportPNG}},
		{Key: ebiten.KeyS, Ctrl: true, Shift: true, Command: Command{Action: ActionExportPDF}},
		{Key: ebiten.KeyQ, Ctrl: true, Command: Command{Action: ActionQuit}},
	}
	digits := []ebiten.Key{
		ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
		ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	}
	for i, k := range digits {
		b = append(b, Binding{Key: k, Command: Command{Action: ActionColor, Index: i}})
	}
	return b
}

// Keymap resolves key presses to commands.
type Keymap struct {
	src      KeySource
	bindings []Binding
}

// NewKeymap creates a Keymap. A nil bindings slice uses DefaultBindings.
func NewKeymap(src KeySource, bindings []Binding) *Keymap {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Keymap{src: src, bindings: bindings}
}

// AppendCommands appends the commands triggered this frame to dst.
func (k *Keymap) AppendCommands(dst []Command) []Command {
	ctrl := k.src.IsKeyPressed(ebiten.KeyControl) || k.src.IsKeyPressed(ebiten.KeyMeta)
	shift := k.src.IsKeyPressed(ebiten.KeyShift)
	for _, b := range k.bindings {
		if b.Ctrl != ctrl || b.Shift != shift {
			continue
		}
		if k.src.IsKeyJustPressed(b.Key) {
			dst = append(dst, b.Command)
		}
	}
	return dst
}
