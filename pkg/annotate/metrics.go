package annotate

import (
	"expvar"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-annotate/internal/canvas"
)

// Metrics collects operational counters for an Overlay. Counters are
// updated atomically; core gauges are read from the canvas on demand.
//
// Metrics can be exposed on /debug/vars with RegisterExpvar:
//
//	m := overlay.Metrics()
//	m.RegisterExpvar("annotate")
//	// import _ "expvar" and serve http.DefaultServeMux
type Metrics struct {
	starts           atomic.Int64
	stops            atomic.Int64
	strokesCommitted atomic.Int64
	strokesErased    atomic.Int64
	clears           atomic.Int64
	modeChanges      atomic.Int64
	configReloads    atomic.Int64
	errorsTotal      atomic.Int64
	exports          atomic.Int64
	eventsEmitted    atomic.Int64

	exportLatencyNs    atomic.Int64
	exportLatencyCount atomic.Int64

	running atomic.Bool

	mu     sync.RWMutex
	source func() canvas.Stats

	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// setSource sets the function that reports core gauges.
func (m *Metrics) setSource(fn func() canvas.Stats) {
	m.mu.Lock()
	m.source = fn
	m.mu.Unlock()
}

func (m *Metrics) core() canvas.Stats {
	m.mu.RLock()
	fn := m.source
	m.mu.RUnlock()
	if fn == nil {
		return canvas.Stats{}
	}
	return fn()
}

// RegisterExpvar publishes every metric under prefix, for example
// "annotate_strokes_committed_total". Safe to call multiple times;
// subsequent calls are no-ops. Registering two collectors with the same
// prefix panics, as expvar does.
func (m *Metrics) RegisterExpvar(prefix string) {
	if m.registered.Swap(true) {
		return
	}
	counter := func(name string, v *atomic.Int64) {
		expvar.Publish(prefix+"_"+name, expvar.Func(func() any { return v.Load() }))
	}
	counter("starts_total", &m.starts)
	counter("stops_total", &m.stops)
	counter("strokes_committed_total", &m.strokesCommitted)
	counter("strokes_erased_total", &m.strokesErased)
	counter("clears_total", &m.clears)
	counter("mode_changes_total", &m.modeChanges)
	counter("config_reloads_total", &m.configReloads)
	counter("errors_total", &m.errorsTotal)
	counter("exports_total", &m.exports)
	counter("events_emitted_total", &m.eventsEmitted)

	expvar.Publish(prefix+"_running", expvar.Func(func() any { return m.running.Load() }))
	expvar.Publish(prefix+"_particles_spawned_total", expvar.Func(func() any { return m.core().ParticlesSpawned }))
	expvar.Publish(prefix+"_frames_ticked_total", expvar.Func(func() any { return m.core().Frames }))
	expvar.Publish(prefix+"_strokes", expvar.Func(func() any { return m.core().Strokes }))
	expvar.Publish(prefix+"_export_latency_avg_ms", expvar.Func(func() any {
		return float64(m.Snapshot().ExportLatencyAvg) / float64(time.Millisecond)
	}))
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Starts           int64
	Stops            int64
	StrokesCommitted int64
	StrokesErased    int64
	Clears           int64
	ModeChanges      int64
	ConfigReloads    int64
	ErrorsTotal      int64
	Exports          int64
	EventsEmitted    int64

	Running          bool
	Strokes          int
	Particles        int
	ParticlesSpawned uint64
	FramesTicked     uint64

	ExportLatencyAvg time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	core := m.core()
	return MetricsSnapshot{
		Starts:           m.starts.Load(),
		Stops:            m.stops.Load(),
		StrokesCommitted: m.strokesCommitted.Load(),
		StrokesErased:    m.strokesErased.Load(),
		Clears:           m.clears.Load(),
		ModeChanges:      m.modeChanges.Load(),
		ConfigReloads:    m.configReloads.Load(),
		ErrorsTotal:      m.errorsTotal.Load(),
		Exports:          m.exports.Load(),
		EventsEmitted:    m.eventsEmitted.Load(),

		Running:          m.running.Load(),
		Strokes:          core.Strokes,
		Particles:        core.Particles,
		ParticlesSpawned: core.ParticlesSpawned,
		FramesTicked:     core.Frames,

		ExportLatencyAvg: safeDivide(m.exportLatencyNs.Load(), m.exportLatencyCount.Load()),
	}
}

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() { m.starts.Add(1) }

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() { m.stops.Add(1) }

// AddStrokesCommitted records committed strokes.
func (m *Metrics) AddStrokesCommitted(n int) { m.strokesCommitted.Add(int64(n)) }

// AddStrokesErased records erased strokes.
func (m *Metrics) AddStrokesErased(n int) { m.strokesErased.Add(int64(n)) }

// IncrementClears records a clear.
func (m *Metrics) IncrementClears() { m.clears.Add(1) }

// IncrementModeChanges records a tool mode change.
func (m *Metrics) IncrementModeChanges() { m.modeChanges.Add(1) }

// IncrementConfigReloads records a configuration reload.
func (m *Metrics) IncrementConfigReloads() { m.configReloads.Add(1) }

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() { m.errorsTotal.Add(1) }

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() { m.eventsEmitted.Add(1) }

// RecordExport records a completed export and its duration.
func (m *Metrics) RecordExport(d time.Duration) {
	m.exports.Add(1)
	m.exportLatencyNs.Add(d.Nanoseconds())
	m.exportLatencyCount.Add(1)
}

// SetRunning updates the running gauge.
func (m *Metrics) SetRunning(running bool) { m.running.Store(running) }

// Reset clears all counters. Core gauges are unaffected.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.starts, &m.stops, &m.strokesCommitted, &m.strokesErased, &m.clears,
		&m.modeChanges, &m.configReloads, &m.errorsTotal, &m.exports,
		&m.eventsEmitted, &m.exportLatencyNs, &m.exportLatencyCount,
	} {
		c.Store(0)
	}
	m.running.Store(false)
}

func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}
