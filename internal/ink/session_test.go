package ink

import (
	"image/color"
	"testing"
)

var testAttrs = Attributes{Color: color.RGBA{255, 0, 0, 255}, Width: 4}

func TestSessionTableLifecycle(t *testing.T) {
	tests := []struct {
		name  string
		moves int
	}{
		{"tap", 0},
		{"short", 1},
		{"long", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewSessionTable()
			if !table.Begin(MousePointer, Point{0, 0}, testAttrs) {
				t.Fatal("Begin returned false for a new pointer")
			}
			for i := 1; i <= tt.moves; i++ {
				table.Update(MousePointer, Point{float64(i), float64(i * 2)})
			}
			s := table.End(MousePointer)
			if len(s.Points) != 1+tt.moves {
				t.Fatalf("points = %d, want %d", len(s.Points), 1+tt.moves)
			}
			for i, p := range s.Points {
				want := Point{float64(i), float64(i * 2)}
				if p != want {
					t.Errorf("point %d = %v, want %v", i, p, want)
				}
			}
			if s.Attributes != testAttrs {
				t.Errorf("attributes = %+v, want %+v", s.Attributes, testAttrs)
			}
			if table.Len() != 0 {
				t.Errorf("Len() = %d after End, want 0", table.Len())
			}
		})
	}
}

func TestSessionTableUnknownID(t *testing.T) {
	table := NewSessionTable()
	table.Begin(1, Point{1, 1}, testAttrs)

	if table.Update(42, Point{5, 5}) {
		t.Error("Update on unknown id returned true")
	}
	if s := table.End(42); !s.Empty() {
		t.Errorf("End on unknown id returned %d points", len(s.Points))
	}
	if table.Cancel(42) {
		t.Error("Cancel on unknown id returned true")
	}

	s, ok := table.Get(1)
	if !ok || len(s.Points) != 1 {
		t.Errorf("existing session mutated: ok=%v points=%d", ok, len(s.Points))
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestSessionTableBeginActiveID(t *testing.T) {
	table := NewSessionTable()
	table.Begin(7, Point{1, 1}, testAttrs)
	table.Update(7, Point{2, 2})

	if table.Begin(7, Point{9, 9}, testAttrs) {
		t.Error("Begin on active id returned true")
	}
	s := table.End(7)
	if len(s.Points) != 2 || s.Points[0] != (Point{1, 1}) {
		t.Errorf("session = %v, want original two points", s.Points)
	}
}

func TestSessionTableIndependentSessions(t *testing.T) {
	table := NewSessionTable()
	table.Begin(1, Point{100, 0}, testAttrs)
	table.Begin(2, Point{200, 0}, testAttrs)

	// Interleave arrivals.
	for i := 1; i <= 5; i++ {
		table.Update(2, Point{200, float64(i)})
		table.Update(1, Point{100, float64(i)})
	}
	table.Update(2, Point{200, 6})

	a := table.End(1)
	b := table.End(2)
	if len(a.Points) != 6 {
		t.Errorf("session 1 points = %d, want 6", len(a.Points))
	}
	if len(b.Points) != 7 {
		t.Errorf("session 2 points = %d, want 7", len(b.Points))
	}
	for i, p := range a.Points {
		if p.X != 100 || p.Y != float64(i) {
			t.Errorf("session 1 point %d = %v", i, p)
		}
	}
	for i, p := range b.Points {
		if p.X != 200 || p.Y != float64(i) {
			t.Errorf("session 2 point %d = %v", i, p)
		}
	}
}

func TestSessionTableSlotReuse(t *testing.T) {
	table := NewSessionTable()
	table.Begin(1, Point{1, 1}, testAttrs)
	first := table.End(1)

	table.Begin(2, Point{2, 2}, testAttrs)
	table.Update(2, Point{3, 3})

	if first.Points[0] != (Point{1, 1}) {
		t.Errorf("returned points overwritten by slot reuse: %v", first.Points)
	}
	if len(table.slots) != 1 {
		t.Errorf("slots = %d, want 1 after reuse", len(table.slots))
	}
}

func TestSessionTableDrainAndReset(t *testing.T) {
	table := NewSessionTable()
	for id := PointerID(1); id <= 4; id++ {
		table.Begin(id, Point{float64(id), 0}, testAttrs)
	}

	drained := table.Drain()
	if len(drained) != 4 {
		t.Errorf("Drain() returned %d sessions, want 4", len(drained))
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d after Drain, want 0", table.Len())
	}

	table.Begin(9, Point{}, testAttrs)
	table.Reset()
	if table.Has(9) {
		t.Error("session survived Reset")
	}
	if got := table.Drain(); got != nil {
		t.Errorf("Drain() on empty table = %v, want nil", got)
	}
}

func TestSessionTableEach(t *testing.T) {
	table := NewSessionTable()
	table.Begin(MousePointer, Point{}, testAttrs)
	table.Begin(3, Point{}, testAttrs)
	table.Begin(4, Point{}, testAttrs)
	table.End(3)

	seen := map[PointerID]bool{}
	table.Each(func(s Session) { seen[s.ID] = true })

	if len(seen) != 2 || !seen[MousePointer] || !seen[4] {
		t.Errorf("Each visited %v, want mouse and 4", seen)
	}
}
