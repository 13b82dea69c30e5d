package ink

import (
	"image/color"
	"math"
	"testing"
	"time"
)

func TestFinalizeEmpty(t *testing.T) {
	var f Finalizer
	s, ok := f.Finalize(nil, testAttrs)
	if ok || s != nil {
		t.Errorf("Finalize(nil) = %v, %v; want nil, false", s, ok)
	}
}

func TestFinalizeCopiesInput(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := Finalizer{
		Now:   func() time.Time { return fixed },
		NewID: func() string { return "stroke-1" },
	}
	points := []Point{{0, 0}, {10, 0}, {20, 10}, {30, 10}}
	attrs := Attributes{Color: color.RGBA{1, 2, 3, 255}, Width: 8}

	s, ok := f.Finalize(points, attrs)
	if !ok {
		t.Fatal("Finalize returned false")
	}
	points[0] = Point{99, 99}

	if s.Points[0] != (Point{0, 0}) {
		t.Errorf("stroke aliases input points: %v", s.Points[0])
	}
	if len(s.Points) != 4 {
		t.Errorf("points = %d, want 4", len(s.Points))
	}
	if s.ID != "stroke-1" {
		t.Errorf("ID = %q, want stroke-1", s.ID)
	}
	if !s.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", s.CreatedAt, fixed)
	}
	if s.Attributes != attrs {
		t.Errorf("attributes = %+v, want %+v", s.Attributes, attrs)
	}
	if want := 3*DefaultCurveSamples + 1; len(s.Curve) != want {
		t.Errorf("curve = %d points, want %d", len(s.Curve), want)
	}
}

func TestFinalizeDefaultID(t *testing.T) {
	var f Finalizer
	a, _ := f.Finalize([]Point{{1, 1}}, testAttrs)
	b, _ := f.Finalize([]Point{{1, 1}}, testAttrs)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs %q and %q are not unique", a.ID, b.ID)
	}
}

func TestFitCurvePassesThroughPoints(t *testing.T) {
	points := []Point{{0, 0}, {10, 5}, {20, -5}, {30, 0}, {40, 10}}
	const samples = 4
	curve := FitCurve(points, samples)

	for i, p := range points {
		got := curve[i*samples]
		if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
			t.Errorf("curve[%d] = %v, want input point %v", i*samples, got, p)
		}
	}
}

func TestFitCurveShortInput(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"empty", nil},
		{"single", []Point{{1, 1}}},
		{"pair", []Point{{1, 1}, {2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve := FitCurve(tt.points, 8)
			if len(curve) != len(tt.points) {
				t.Errorf("curve = %d points, want %d", len(curve), len(tt.points))
			}
		})
	}
}

func TestStrokeBounds(t *testing.T) {
	s := &Stroke{
		Curve:      []Point{{10, 20}, {30, 5}},
		Attributes: Attributes{Width: 4},
	}
	want := Rect{MinX: 8, MinY: 3, MaxX: 32, MaxY: 22}
	if got := s.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}
