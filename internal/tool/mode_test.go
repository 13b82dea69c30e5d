package tool

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"cursor", Cursor, false},
		{"PEN", Pen, false},
		{"marker", Highlighter, false},
		{" eraser ", Eraser, false},
		{"magic-pen", MagicPen, false},
		{"laser", Cursor, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModeStringRoundTrip(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if Mode(42).Valid() {
		t.Error("Mode(42) reported valid")
	}
	if got := Mode(42).String(); got != "Mode(42)" {
		t.Errorf("String() = %q", got)
	}
}
