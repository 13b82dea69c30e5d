package render

import (
	"slices"
	"testing"
)

func TestWindowHintsAtomNames(t *testing.T) {
	tests := []struct {
		name  string
		hints WindowHints
		want  []string
	}{
		{"none", WindowHints{}, nil},
		{"skip taskbar", WindowHints{SkipTaskbar: true}, []string{"_NET_WM_STATE_SKIP_TASKBAR"}},
		{"above", WindowHints{Above: true}, []string{"_NET_WM_STATE_ABOVE"}},
		{
			"all",
			WindowHints{SkipTaskbar: true, SkipPager: true, Above: true, Sticky: true},
			[]string{"_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER", "_NET_WM_STATE_ABOVE", "_NET_WM_STATE_STICKY"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hints.stateAtomNames(); !slices.Equal(got, tt.want) {
				t.Errorf("stateAtomNames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHintsFor(t *testing.T) {
	got := HintsFor(Config{SkipTaskbar: true, AlwaysOnTop: true})
	want := WindowHints{SkipTaskbar: true, SkipPager: true, Above: true, Sticky: true}
	if got != want {
		t.Errorf("HintsFor() = %+v, want %+v", got, want)
	}
	if got := HintsFor(Config{}); got != (WindowHints{}) {
		t.Errorf("HintsFor(zero) = %+v, want no hints", got)
	}
}
