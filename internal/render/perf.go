package render

import (
	"sync/atomic"
	"time"
)

// FrameMetrics tracks update timing of the overlay loop. All methods are
// safe for concurrent use.
type FrameMetrics struct {
	periodFrames  atomic.Int64
	frames        atomic.Int64
	lastFPS       atomic.Int64 // FPS * 1000
	lastFrameTime atomic.Int64 // nanoseconds
	minFrameTime  atomic.Int64
	maxFrameTime  atomic.Int64
	totalTime     atomic.Int64
	lastUpdate    atomic.Int64 // Unix nano
	updatePeriod  time.Duration
	now           func() time.Time
}

// NewFrameMetrics creates a FrameMetrics that recalculates FPS every
// updatePeriod (one second when <= 0).
func NewFrameMetrics(updatePeriod time.Duration) *FrameMetrics {
	if updatePeriod <= 0 {
		updatePeriod = time.Second
	}
	fm := &FrameMetrics{updatePeriod: updatePeriod, now: time.Now}
	fm.Reset()
	return fm
}

// RecordFrame records one frame that took frameTime.
func (fm *FrameMetrics) RecordFrame(frameTime time.Duration) {
	ns := frameTime.Nanoseconds()

	fm.periodFrames.Add(1)
	fm.frames.Add(1)
	fm.lastFrameTime.Store(ns)
	fm.totalTime.Add(ns)

	for {
		cur := fm.minFrameTime.Load()
		if ns >= cur || fm.minFrameTime.CompareAndSwap(cur, ns) {
			break
		}
	}
	for {
		cur := fm.maxFrameTime.Load()
		if ns <= cur || fm.maxFrameTime.CompareAndSwap(cur, ns) {
			break
		}
	}

	now := fm.now().UnixNano()
	last := fm.lastUpdate.Load()
	elapsed := time.Duration(now - last)
	if elapsed >= fm.updatePeriod && fm.lastUpdate.CompareAndSwap(last, now) {
		frames := fm.periodFrames.Swap(0)
		fm.lastFPS.Store(int64(float64(frames) / elapsed.Seconds() * 1000))
	}
}

// FPS returns the frame rate measured over the last complete period.
func (fm *FrameMetrics) FPS() float64 {
	return float64(fm.lastFPS.Load()) / 1000
}

// Frames returns the number of frames recorded since the last Reset.
func (fm *FrameMetrics) Frames() int64 {
	return fm.frames.Load()
}

// LastFrameTime returns the duration of the last frame.
func (fm *FrameMetrics) LastFrameTime() time.Duration {
	return time.Duration(fm.lastFrameTime.Load())
}

// MinFrameTime returns the shortest recorded frame, or zero if none.
func (fm *FrameMetrics) MinFrameTime() time.Duration {
	if fm.frames.Load() == 0 {
		return 0
	}
	return time.Duration(fm.minFrameTime.Load())
}

// MaxFrameTime returns the longest recorded frame.
func (fm *FrameMetrics) MaxFrameTime() time.Duration {
	return time.Duration(fm.maxFrameTime.Load())
}

// AverageFrameTime returns the mean frame time.
func (fm *FrameMetrics) AverageFrameTime() time.Duration {
	n := fm.frames.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(fm.totalTime.Load() / n)
}

// Reset clears all metrics.
func (fm *FrameMetrics) Reset() {
	fm.periodFrames.Store(0)
	fm.frames.Store(0)
	fm.lastFPS.Store(0)
	fm.lastFrameTime.Store(0)
	fm.minFrameTime.Store(int64(time.Hour))
	fm.maxFrameTime.Store(0)
	fm.totalTime.Store(0)
	fm.lastUpdate.Store(fm.now().UnixNano())
}

// RenderStats counts draw work since the last Reset.
type RenderStats struct {
	drawCalls     atomic.Int64
	vertices      atomic.Int64
	layerRebuilds atomic.Int64
}

// RecordDrawCall records one DrawTriangles call with n vertices.
func (rs *RenderStats) RecordDrawCall(n int) {
	rs.drawCalls.Add(1)
	rs.vertices.Add(int64(n))
}

// RecordLayerRebuild records a redraw of the cached stroke layer.
func (rs *RenderStats) RecordLayerRebuild() {
	rs.layerRebuilds.Add(1)
}

// Stats returns the counters.
func (rs *RenderStats) Stats() (drawCalls, vertices, layerRebuilds int64) {
	return rs.drawCalls.Load(), rs.vertices.Load(), rs.layerRebuilds.Load()
}

// Reset zeroes the counters.
func (rs *RenderStats) Reset() {
	rs.drawCalls.Store(0)
	rs.vertices.Store(0)
	rs.layerRebuilds.Store(0)
}
