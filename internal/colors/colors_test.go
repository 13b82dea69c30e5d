package colors

import (
	"image/color"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"red", color.RGBA{255, 0, 0, 255}, false},
		{" White ", color.RGBA{255, 255, 255, 255}, false},
		{"#fff", color.RGBA{255, 255, 255, 255}, false},
		{"#f008", color.RGBA{255, 0, 0, 0x88}, false},
		{"00ff00", color.RGBA{0, 255, 0, 255}, false},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}, false},
		{"rgb(1, 2, 3)", color.RGBA{1, 2, 3, 255}, false},
		{"RGBA(1,2,3,128)", color.RGBA{1, 2, 3, 128}, false},
		{"rgba(0, 0, 0, 0.5)", color.RGBA{0, 0, 0, 128}, false},
		{"", color.RGBA{}, true},
		{"#12345", color.RGBA{}, true},
		{"#ggg", color.RGBA{}, true},
		{"rgb(1, 2)", color.RGBA{}, true},
		{"rgb(300, 0, 0)", color.RGBA{}, true},
		{"chartreuse-ish", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on bad input")
		}
	}()
	MustParse("nope")
}

func TestNameAndHex(t *testing.T) {
	tests := []struct {
		in   color.RGBA
		name string
	}{
		{color.RGBA{255, 0, 0, 255}, "red"},
		{color.RGBA{128, 128, 128, 255}, "gray"},
		{color.RGBA{0, 0, 0, 1}, "transparent"},
		{color.RGBA{0, 0, 0, 0}, "none"},
		{color.RGBA{1, 2, 3, 255}, "#010203"},
		{color.RGBA{1, 2, 3, 4}, "#01020304"},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.name {
			t.Errorf("Name(%v) = %q, want %q", tt.in, got, tt.name)
		}
		back, err := Parse(Name(tt.in))
		if err != nil || back != tt.in {
			t.Errorf("Parse(Name(%v)) = %v, %v", tt.in, back, err)
		}
	}
}

func TestScale(t *testing.T) {
	c := color.RGBA{10, 20, 30, 200}
	if got := Scale(c, 0.5).A; got != 100 {
		t.Errorf("Scale 0.5 alpha = %d, want 100", got)
	}
	if got := Scale(c, 2).A; got != 200 {
		t.Errorf("Scale 2 alpha = %d, want 200", got)
	}
	if got := Scale(c, -1).A; got != 0 {
		t.Errorf("Scale -1 alpha = %d, want 0", got)
	}
}
