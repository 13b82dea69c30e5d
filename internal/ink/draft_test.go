package ink

import (
	"image/color"
	"testing"
)

func TestDraftRendererCommands(t *testing.T) {
	table := NewSessionTable()
	pen := Attributes{Color: color.RGBA{0, 0, 255, 255}, Width: 4}
	marker := Attributes{Color: color.RGBA{255, 255, 0, 255}, Width: 20, Highlighter: true}

	table.Begin(1, Point{10, 10}, pen)
	table.Begin(2, Point{50, 50}, marker)
	table.Update(2, Point{60, 60})

	r := NewDraftRenderer()
	r.Invalidate()
	cmds := r.Commands(table)
	if len(cmds) != 2 {
		t.Fatalf("commands = %d, want 2", len(cmds))
	}

	for _, cmd := range cmds {
		switch len(cmd.Points) {
		case 1:
			if cmd.Kind != CommandDot {
				t.Errorf("single point kind = %v, want dot", cmd.Kind)
			}
			if cmd.Width != 4 {
				t.Errorf("dot width = %v, want 4", cmd.Width)
			}
			if cmd.Color.A != 255 {
				t.Errorf("pen alpha = %d, want 255", cmd.Color.A)
			}
		case 2:
			if cmd.Kind != CommandPolyline {
				t.Errorf("two point kind = %v, want polyline", cmd.Kind)
			}
			if cmd.Color.A != 128 {
				t.Errorf("highlighter alpha = %d, want 128", cmd.Color.A)
			}
		default:
			t.Errorf("unexpected command with %d points", len(cmd.Points))
		}
	}
	if r.Dirty() {
		t.Error("renderer still dirty after rebuild")
	}
}

func TestDraftRendererRebuildsOnlyWhenDirty(t *testing.T) {
	table := NewSessionTable()
	table.Begin(1, Point{1, 1}, testAttrs)

	r := NewDraftRenderer()
	r.Invalidate()
	if got := len(r.Commands(table)); got != 1 {
		t.Fatalf("commands = %d, want 1", got)
	}

	table.End(1)
	if got := len(r.Commands(table)); got != 1 {
		t.Errorf("clean renderer rebuilt: commands = %d, want 1", got)
	}

	r.Invalidate()
	if got := len(r.Commands(table)); got != 0 {
		t.Errorf("commands after rebuild = %d, want 0", got)
	}
}

func TestDraftRendererCopiesPoints(t *testing.T) {
	table := NewSessionTable()
	table.Begin(1, Point{1, 1}, testAttrs)
	table.Update(1, Point{2, 2})

	r := NewDraftRenderer()
	cmds := r.Rebuild(table)
	table.End(1)
	table.Begin(2, Point{9, 9}, testAttrs)
	table.Update(2, Point{9, 9})

	if cmds[0].Points[0] != (Point{1, 1}) {
		t.Errorf("draft point = %v, want {1 1}", cmds[0].Points[0])
	}
}

func TestDraftRendererReset(t *testing.T) {
	table := NewSessionTable()
	table.Begin(1, Point{}, testAttrs)
	r := NewDraftRenderer()
	r.Rebuild(table)
	r.Reset()
	if got := len(r.Commands(table)); got != 0 {
		t.Errorf("commands after Reset = %d, want 0", got)
	}
}
