package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Window applies the canvas input flags to the ebiten window. It satisfies
// tool.Host.
type Window struct {
	mu          sync.Mutex
	passthrough bool
	hitTestable bool
	apply       func(passthrough bool)
}

// NewWindow creates a Window bound to the ebiten window.
func NewWindow() *Window {
	return &Window{apply: ebiten.SetWindowMousePassthrough}
}

// SetPassthrough makes the window click-through when enabled.
func (w *Window) SetPassthrough(enabled bool) {
	w.mu.Lock()
	changed := w.passthrough != enabled
	w.passthrough = enabled
	w.mu.Unlock()
	if changed && w.apply != nil {
		w.apply(enabled)
	}
}

// SetInkHitTestable records whether drawn ink should react to pointers.
// Ebiten has no per-shape hit testing, so the flag only selects how the
// background captures input.
func (w *Window) SetInkHitTestable(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hitTestable = enabled
}

// Passthrough reports whether the window is click-through.
func (w *Window) Passthrough() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.passthrough
}

// InkHitTestable reports the last value passed to SetInkHitTestable.
func (w *Window) InkHitTestable() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hitTestable
}
