package ink

import "image/color"

// CommandKind selects how a DrawCommand is painted.
type CommandKind int

const (
	// CommandDot is a filled circle whose diameter is Width.
	CommandDot CommandKind = iota
	// CommandPolyline is a connected polyline with round caps and joins.
	CommandPolyline
)

// String returns the name of the command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandDot:
		return "dot"
	case CommandPolyline:
		return "polyline"
	default:
		return "unknown"
	}
}

// DrawCommand is one entry of the draft display list.
type DrawCommand struct {
	Kind   CommandKind
	Points []Point
	Width  float64
	Color  color.RGBA
}

// DraftRenderer rebuilds the draft display list from the live sessions.
// The list is rebuilt from scratch whenever it is marked dirty; no
// smoothing is applied, so a rebuild costs one copy of the live points.
type DraftRenderer struct {
	commands []DrawCommand
	points   []Point
	dirty    bool
}

// NewDraftRenderer creates a renderer with an empty display list.
func NewDraftRenderer() *DraftRenderer {
	return &DraftRenderer{}
}

// Invalidate marks the display list as stale.
func (r *DraftRenderer) Invalidate() {
	r.dirty = true
}

// Dirty reports whether the next Commands call rebuilds the list.
func (r *DraftRenderer) Dirty() bool {
	return r.dirty
}

// Commands returns the display list for t, rebuilding it if stale.
// The returned slice is valid until the next rebuild.
func (r *DraftRenderer) Commands(t *SessionTable) []DrawCommand {
	if r.dirty {
		r.Rebuild(t)
	}
	return r.commands
}

// Rebuild repaints the display list from every live session in t.
func (r *DraftRenderer) Rebuild(t *SessionTable) []DrawCommand {
	r.commands = r.commands[:0]
	r.points = r.points[:0]
	t.Each(func(s Session) {
		if s.Empty() {
			return
		}
		start := len(r.points)
		r.points = append(r.points, s.Points...)
		cmd := DrawCommand{
			Kind:  CommandPolyline,
			Width: s.Attributes.Width,
			Color: s.Attributes.InkColor(),
		}
		if len(s.Points) == 1 {
			cmd.Kind = CommandDot
		}
		cmd.Points = r.points[start:len(r.points):len(r.points)]
		r.commands = append(r.commands, cmd)
	})
	r.dirty = false
	return r.commands
}

// Reset empties the display list.
func (r *DraftRenderer) Reset() {
	r.commands = r.commands[:0]
	r.points = r.points[:0]
	r.dirty = false
}
