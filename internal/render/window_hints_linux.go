//go:build linux

package render

import (
	"slices"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// hintApplier sets EWMH _NET_WM_STATE atoms on the overlay window.
// It caches the X11 connection, the interned atoms and the target window.
type hintApplier struct {
	mu     sync.Mutex
	conn   *xgb.Conn
	atoms  map[string]xproto.Atom
	window xproto.Window
}

var globalHintApplier = &hintApplier{
	atoms: make(map[string]xproto.Atom),
}

// ApplyWindowHints sets the requested EWMH state hints on the overlay.
// It must be called after the window exists, i.e. from inside the game
// loop. Missing X11 (Wayland, headless) is not an error.
func ApplyWindowHints(h WindowHints) error {
	if len(h.stateAtomNames()) == 0 {
		return nil
	}
	return globalHintApplier.apply(h)
}

func (a *hintApplier) apply(h WindowHints) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		conn, err := xgb.NewConn()
		if err != nil {
			return nil
		}
		a.conn = conn
	}

	if a.window == xproto.WindowNone {
		w, err := a.activeWindow()
		if err != nil || w == xproto.WindowNone {
			return nil
		}
		a.window = w
	}

	var want []xproto.Atom
	for _, name := range h.stateAtomNames() {
		if atom, err := a.atom(name); err == nil {
			want = append(want, atom)
		}
	}
	if len(want) == 0 {
		return nil
	}

	stateAtom, err := a.atom("_NET_WM_STATE")
	if err != nil {
		return nil
	}
	atomAtom, err := a.atom("ATOM")
	if err != nil {
		return nil
	}

	current, _ := a.windowState(stateAtom, atomAtom)
	final := mergeAtoms(current, want)

	data := make([]byte, len(final)*4)
	for i, atom := range final {
		xgb.Put32(data[i*4:], uint32(atom))
	}
	xproto.ChangeProperty(a.conn, xproto.PropModeReplace, a.window,
		stateAtom, atomAtom, 32, uint32(len(final)), data)
	return nil
}

// mergeAtoms returns the sorted union of current and add.
func mergeAtoms(current, add []xproto.Atom) []xproto.Atom {
	out := make([]xproto.Atom, 0, len(current)+len(add))
	out = append(out, current...)
	out = append(out, add...)
	slices.Sort(out)
	return slices.Compact(out)
}

func (a *hintApplier) atom(name string) (xproto.Atom, error) {
	if atom, ok := a.atoms[name]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(a.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	a.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// activeWindow returns the focused window. Called on the first frame, when
// the freshly mapped overlay holds focus.
func (a *hintApplier) activeWindow() (xproto.Window, error) {
	setup := xproto.Setup(a.conn)
	if len(setup.Roots) == 0 {
		return xproto.WindowNone, nil
	}
	root := setup.Roots[0].Root

	if activeAtom, err := a.atom("_NET_ACTIVE_WINDOW"); err == nil {
		reply, err := xproto.GetProperty(a.conn, false, root, activeAtom,
			xproto.AtomWindow, 0, 1).Reply()
		if err == nil && reply != nil && len(reply.Value) >= 4 {
			return xproto.Window(xgb.Get32(reply.Value)), nil
		}
	}

	focus, err := xproto.GetInputFocus(a.conn).Reply()
	if err != nil {
		return xproto.WindowNone, err
	}
	return focus.Focus, nil
}

func (a *hintApplier) windowState(stateAtom, atomAtom xproto.Atom) ([]xproto.Atom, error) {
	reply, err := xproto.GetProperty(a.conn, false, a.window, stateAtom,
		atomAtom, 0, 256).Reply()
	if err != nil || reply == nil {
		return nil, err
	}
	atoms := make([]xproto.Atom, 0, len(reply.Value)/4)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		atoms = append(atoms, xproto.Atom(xgb.Get32(reply.Value[i:])))
	}
	return atoms, nil
}

func (a *hintApplier) close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	a.window = xproto.WindowNone
	a.atoms = make(map[string]xproto.Atom)
}

// CloseWindowHints releases the X11 connection used for window hints.
func CloseWindowHints() {
	globalHintApplier.close()
}
