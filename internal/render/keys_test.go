package render

import (
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

type fakeKeys struct {
	held map[ebiten.Key]bool
	just map[ebiten.Key]bool
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{held: map[ebiten.Key]bool{}, just: map[ebiten.Key]bool{}}
}

func (k *fakeKeys) IsKeyJustPressed(key ebiten.Key) bool { return k.just[key] }

func (k *fakeKeys) IsKeyPressed(key ebiten.Key) bool { return k.held[key] || k.just[key] }

// press holds mods and marks key as just pressed until release is called.
func (k *fakeKeys) press(key ebiten.Key, mods ...ebiten.Key) {
	for _, m := range mods {
		k.held[m] = true
	}
	k.just[key] = true
}

func (k *fakeKeys) release() {
	clear(k.held)
	clear(k.just)
}

func TestKeymapCommands(t *testing.T) {
	tests := []struct {
		name string
		key  ebiten.Key
		mods []ebiten.Key
		want []Command
	}{
		{"pen", ebiten.KeyP, nil, []Command{{Action: ActionPen}}},
		{"magic", ebiten.KeyM, nil, []Command{{Action: ActionMagicPen}}},
		{"delete clears", ebiten.KeyDelete, nil, []Command{{Action: ActionClear}}},
		{"backspace clears", ebiten.KeyBackspace, nil, []Command{{Action: ActionClear}}},
		{"palette", ebiten.KeyDigit3, nil, []Command{{Action: ActionColor, Index: 2}}},
		{"brush larger", ebiten.KeyBracketRight, nil, []Command{{Action: ActionBrushLarger}}},
		{"export png", ebiten.KeyS, []ebiten.Key{ebiten.KeyControl}, []Command{{Action: ActionExportPNG}}},
		{"export pdf", ebiten.KeyS, []ebiten.Key{ebiten.KeyControl, ebiten.KeyShift}, []Command{{Action: ActionExportPDF}}},
		{"meta counts as ctrl", ebiten.KeyQ, []ebiten.Key{ebiten.KeyMeta}, []Command{{Action: ActionQuit}}},
		{"plain s unbound", ebiten.KeyS, nil, nil},
		{"ctrl p unbound", ebiten.KeyP, []ebiten.Key{ebiten.KeyControl}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := newFakeKeys()
			km := NewKeymap(keys, nil)
			keys.press(tt.key, tt.mods...)
			if got := km.AppendCommands(nil); !slices.Equal(got, tt.want) {
				t.Errorf("AppendCommands() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeymapCustomBindings(t *testing.T) {
	keys := newFakeKeys()
	km := NewKeymap(keys, []Binding{{Key: ebiten.KeyF1, Command: Command{Action: ActionCursor}}})

	keys.press(ebiten.KeyP)
	if got := km.AppendCommands(nil); len(got) != 0 {
		t.Errorf("AppendCommands() = %v, want none for unbound key", got)
	}
	keys.release()
	keys.press(ebiten.KeyF1)
	if got := km.AppendCommands(nil); !slices.Equal(got, []Command{{Action: ActionCursor}}) {
		t.Errorf("AppendCommands() = %v, want cursor", got)
	}
}

func TestActionString(t *testing.T) {
	if got := ActionExportPDF.String(); got != "export-pdf" {
		t.Errorf("String() = %q, want %q", got, "export-pdf")
	}
	if got := Action(-3).String(); got != "unknown" {
		t.Errorf("String() = %q, want %q", got, "unknown")
	}
}
