package render

import (
	"sync/atomic"
	"time"
)

// FrameMetrics tracks tick timing for the frame loop. All methods are safe
// for concurrent use; status readers call them from other goroutines.
type FrameMetrics struct {
	frames        atomic.Int64
	periodFrames  atomic.Int64
	lastFPS       atomic.Int64 // FPS * 1000
	lastFrameTime atomic.Int64
	maxFrameTime  atomic.Int64
	totalTime     atomic.Int64
	periodStart   atomic.Int64
	updatePeriod  time.Duration
}

// NewFrameMetrics creates a FrameMetrics that recalculates FPS every
// updatePeriod (one second when non-positive).
func NewFrameMetrics(updatePeriod time.Duration) *FrameMetrics {
	if updatePeriod <= 0 {
		updatePeriod = time.Second
	}
	fm := &FrameMetrics{updatePeriod: updatePeriod}
	fm.periodStart.Store(time.Now().UnixNano())
	return fm
}

// RecordFrame records one tick that took frameTime.
func (fm *FrameMetrics) RecordFrame(frameTime time.Duration) {
	nanos := frameTime.Nanoseconds()
	fm.frames.Add(1)
	fm.periodFrames.Add(1)
	fm.lastFrameTime.Store(nanos)
	fm.totalTime.Add(nanos)
	for {
		cur := fm.maxFrameTime.Load()
		if nanos <= cur || fm.maxFrameTime.CompareAndSwap(cur, nanos) {
			break
		}
	}

	now := time.Now().UnixNano()
	start := fm.periodStart.Load()
	elapsed := time.Duration(now - start)
	if elapsed >= fm.updatePeriod && fm.periodStart.CompareAndSwap(start, now) {
		n := fm.periodFrames.Swap(0)
		fm.lastFPS.Store(int64(float64(n) / elapsed.Seconds() * 1000))
	}
}

// FPS returns the ticks per second measured over the last full period.
func (fm *FrameMetrics) FPS() float64 {
	return float64(fm.lastFPS.Load()) / 1000.0
}

// Frames returns the number of recorded ticks.
func (fm *FrameMetrics) Frames() int64 {
	return fm.frames.Load()
}

// LastFrameTime returns the duration of the last tick.
func (fm *FrameMetrics) LastFrameTime() time.Duration {
	return time.Duration(fm.lastFrameTime.Load())
}

// MaxFrameTime returns the slowest recorded tick.
func (fm *FrameMetrics) MaxFrameTime() time.Duration {
	return time.Duration(fm.maxFrameTime.Load())
}

// AverageFrameTime returns the mean tick duration.
func (fm *FrameMetrics) AverageFrameTime() time.Duration {
	n := fm.frames.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(fm.totalTime.Load() / n)
}

// Reset clears all metrics.
func (fm *FrameMetrics) Reset() {
	fm.frames.Store(0)
	fm.periodFrames.Store(0)
	fm.lastFPS.Store(0)
	fm.lastFrameTime.Store(0)
	fm.maxFrameTime.Store(0)
	fm.totalTime.Store(0)
	fm.periodStart.Store(time.Now().UnixNano())
}
