package profiling

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedSampler returns heap values advancing by step bytes and one
// second per call.
type scriptedSampler struct {
	mu         sync.Mutex
	t          time.Time
	heap       uint64
	step       uint64
	goroutines int
	extra      int
}

func (s *scriptedSampler) sample() MemorySample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := MemorySample{Time: s.t, HeapAlloc: s.heap, Goroutines: s.goroutines}
	s.t = s.t.Add(time.Second)
	s.heap += s.step
	s.goroutines += s.extra
	return out
}

func TestMemoryWatchGrowth(t *testing.T) {
	tests := []struct {
		name       string
		step       uint64
		extra      int
		wantSus    bool
		wantReason string
	}{
		{"flat", 0, 0, false, ""},
		{"slow heap", 1024, 0, false, ""},
		{"fast heap", 2 * MB, 0, true, "heap"},
		{"goroutines", 0, 5, true, "goroutines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &scriptedSampler{t: time.Unix(0, 0), heap: MB, step: tt.step, goroutines: 4, extra: tt.extra}
			w := NewMemoryWatch(WatchConfig{Sample: s.sample})
			for i := 0; i < 4; i++ {
				w.Sample()
			}
			g, ok := w.Growth()
			if !ok {
				t.Fatal("Growth() not available after 4 samples")
			}
			if g.Duration != 3*time.Second {
				t.Errorf("Duration = %v, want 3s", g.Duration)
			}
			if g.Suspect != tt.wantSus {
				t.Errorf("Suspect = %v, want %v (%s)", g.Suspect, tt.wantSus, g)
			}
			if tt.wantReason != "" && !strings.Contains(g.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to mention %q", g.Reason, tt.wantReason)
			}
		})
	}
}

func TestMemoryWatchWindow(t *testing.T) {
	s := &scriptedSampler{t: time.Unix(0, 0), step: 10}
	w := NewMemoryWatch(WatchConfig{MaxSamples: 3, Sample: s.sample})

	if _, ok := w.Growth(); ok {
		t.Error("Growth() available with no samples")
	}
	if _, ok := w.Latest(); ok {
		t.Error("Latest() available with no samples")
	}
	for i := 0; i < 5; i++ {
		w.Sample()
	}
	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}
	latest, _ := w.Latest()
	if latest.HeapAlloc != 40 {
		t.Errorf("Latest().HeapAlloc = %d, want 40", latest.HeapAlloc)
	}
	if g, _ := w.Growth(); g.HeapDelta != 20 {
		t.Errorf("HeapDelta = %d, want 20 over the retained window", g.HeapDelta)
	}
}

func TestMemoryWatchStartStop(t *testing.T) {
	s := &scriptedSampler{t: time.Unix(0, 0), step: 4 * MB}
	w := NewMemoryWatch(WatchConfig{Interval: time.Millisecond, Sample: s.sample})

	grew := make(chan Growth, 1)
	w.OnGrowth(func(g Growth) {
		select {
		case grew <- g:
		default:
		}
	})

	w.Start()
	w.Start()
	select {
	case g := <-grew:
		if !g.Suspect {
			t.Errorf("callback got non-suspect growth %v", g)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("growth callback never fired")
	}
	w.Stop()
	w.Stop()

	n := w.Len()
	time.Sleep(5 * time.Millisecond)
	if w.Len() != n {
		t.Error("watch kept sampling after Stop")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2 * KB, "2.00 KB"},
		{3 * MB / 2, "1.50 MB"},
		{5 * GB, "5.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadMemorySample(t *testing.T) {
	s := ReadMemorySample()
	if s.HeapAlloc == 0 || s.Goroutines == 0 || s.Time.IsZero() {
		t.Errorf("ReadMemorySample() = %+v, want populated fields", s)
	}
}
