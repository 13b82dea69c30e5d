package profiling

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Byte size constants for memory formatting.
const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
)

// MemorySample is a point-in-time memory measurement.
type MemorySample struct {
	Time       time.Time
	HeapAlloc  uint64
	HeapObjs   uint64
	Goroutines int
	NumGC      uint32
}

// ReadMemorySample measures the current process.
func ReadMemorySample() MemorySample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MemorySample{
		Time:       time.Now(),
		HeapAlloc:  ms.HeapAlloc,
		HeapObjs:   ms.HeapObjects,
		Goroutines: runtime.NumGoroutine(),
		NumGC:      ms.NumGC,
	}
}

// Growth is the change between the oldest and newest retained sample.
type Growth struct {
	Duration       time.Duration
	HeapDelta      int64
	GoroutineDelta int
	BytesPerSec    float64
	Suspect        bool
	Reason         string
}

// String formats g for logs.
func (g Growth) String() string {
	s := fmt.Sprintf("heap %+d B over %s (%.1f KB/s), goroutines %+d",
		g.HeapDelta, g.Duration.Round(time.Second), g.BytesPerSec/KB, g.GoroutineDelta)
	if g.Suspect {
		s += ": " + g.Reason
	}
	return s
}

// WatchConfig configures a MemoryWatch. Zero fields take defaults.
type WatchConfig struct {
	Interval           time.Duration
	MaxSamples         int
	BytesPerSecLimit   float64
	GoroutineGrowthMax int
	// Sample replaces ReadMemorySample, mainly for tests.
	Sample func() MemorySample
}

func (c WatchConfig) withDefaults() WatchConfig {
	if c.Interval <= 0 {
		c.Interval = 10 * time.Second
	}
	if c.MaxSamples <= 0 {
		c.MaxSamples = 60
	}
	if c.BytesPerSecLimit <= 0 {
		c.BytesPerSecLimit = MB
	}
	if c.GoroutineGrowthMax <= 0 {
		c.GoroutineGrowthMax = 10
	}
	if c.Sample == nil {
		c.Sample = ReadMemorySample
	}
	return c
}

// MemoryWatch keeps a bounded window of memory samples and reports
// sustained heap or goroutine growth. Growth is only reported.
type MemoryWatch struct {
	cfg     WatchConfig
	mu      sync.RWMutex
	samples []MemorySample
	onGrow  func(Growth)
	stop    chan struct{}
	done    chan struct{}
}

// NewMemoryWatch creates a MemoryWatch.
func NewMemoryWatch(cfg WatchConfig) *MemoryWatch {
	cfg = cfg.withDefaults()
	return &MemoryWatch{cfg: cfg, samples: make([]MemorySample, 0, cfg.MaxSamples)}
}

// OnGrowth sets a callback invoked from the sampling goroutine whenever
// the window looks suspect.
func (w *MemoryWatch) OnGrowth(fn func(Growth)) {
	w.mu.Lock()
	w.onGrow = fn
	w.mu.Unlock()
}

// Sample records one measurement and returns it.
func (w *MemoryWatch) Sample() MemorySample {
	s := w.cfg.Sample()
	w.mu.Lock()
	w.samples = append(w.samples, s)
	if n := len(w.samples) - w.cfg.MaxSamples; n > 0 {
		w.samples = append(w.samples[:0], w.samples[n:]...)
	}
	w.mu.Unlock()
	return s
}

// Len returns the number of retained samples.
func (w *MemoryWatch) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.samples)
}

// Latest returns the newest sample and whether one exists.
func (w *MemoryWatch) Latest() (MemorySample, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.samples) == 0 {
		return MemorySample{}, false
	}
	return w.samples[len(w.samples)-1], true
}

// Growth analyses the retained window. It returns false with fewer than
// two samples or a non-positive time span.
func (w *MemoryWatch) Growth() (Growth, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.samples) < 2 {
		return Growth{}, false
	}
	first, last := w.samples[0], w.samples[len(w.samples)-1]
	d := last.Time.Sub(first.Time)
	if d <= 0 {
		return Growth{}, false
	}

	g := Growth{
		Duration:       d,
		HeapDelta:      int64(last.HeapAlloc) - int64(first.HeapAlloc),
		GoroutineDelta: last.Goroutines - first.Goroutines,
	}
	g.BytesPerSec = float64(g.HeapDelta) / d.Seconds()
	switch {
	case g.BytesPerSec > w.cfg.BytesPerSecLimit:
		g.Suspect = true
		g.Reason = fmt.Sprintf("heap growing faster than %s/s", FormatBytes(uint64(w.cfg.BytesPerSecLimit)))
	case g.GoroutineDelta > w.cfg.GoroutineGrowthMax:
		g.Suspect = true
		g.Reason = fmt.Sprintf("%d new goroutines", g.GoroutineDelta)
	}
	return g, true
}

// Start samples every Interval in a background goroutine until Stop.
// Calling Start on a running watch is a no-op.
func (w *MemoryWatch) Start() {
	w.mu.Lock()
	if w.stop != nil {
		w.mu.Unlock()
		return
	}
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	stop, done := w.stop, w.done
	w.mu.Unlock()

	go w.loop(stop, done)
}

// Stop halts sampling and waits for the goroutine to exit.
func (w *MemoryWatch) Stop() {
	w.mu.Lock()
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (w *MemoryWatch) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.Sample()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.Sample()
			if g, ok := w.Growth(); ok && g.Suspect {
				w.mu.RLock()
				fn := w.onGrow
				w.mu.RUnlock()
				if fn != nil {
					fn(g)
				}
			}
		}
	}
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes uint64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
