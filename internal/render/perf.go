package render

import (
	"sync/atomic"
	"time"
)

// FrameBudget is the render time above which a frame counts as an overrun.
const FrameBudget = 16 * time.Millisecond

// FrameMetrics tracks render timing. All methods are safe for concurrent use.
type FrameMetrics struct {
	frames   atomic.Int64
	failures atomic.Int64
	overruns atomic.Int64
	last     atomic.Int64 // nanoseconds
	min      atomic.Int64
	max      atomic.Int64
	total    atomic.Int64
}

// NewFrameMetrics creates an empty FrameMetrics.
func NewFrameMetrics() *FrameMetrics {
	fm := &FrameMetrics{}
	fm.min.Store(int64(time.Hour))
	return fm
}

// RecordFrame records one successful render of duration d.
func (fm *FrameMetrics) RecordFrame(d time.Duration) {
	n := d.Nanoseconds()
	fm.frames.Add(1)
	fm.last.Store(n)
	fm.total.Add(n)
	if d > FrameBudget {
		fm.overruns.Add(1)
	}

	for {
		cur := fm.min.Load()
		if n >= cur || fm.min.CompareAndSwap(cur, n) {
			break
		}
	}
	for {
		cur := fm.max.Load()
		if n <= cur || fm.max.CompareAndSwap(cur, n) {
			break
		}
	}
}

// RecordFailure records a render that was abandoned.
func (fm *FrameMetrics) RecordFailure() {
	fm.failures.Add(1)
}

// FrameStats is a point-in-time copy of FrameMetrics.
type FrameStats struct {
	Frames   int64
	Failures int64
	Overruns int64
	Last     time.Duration
	Min      time.Duration
	Max      time.Duration
	Average  time.Duration
}

// Snapshot returns the current statistics.
func (fm *FrameMetrics) Snapshot() FrameStats {
	s := FrameStats{
		Frames:   fm.frames.Load(),
		Failures: fm.failures.Load(),
		Overruns: fm.overruns.Load(),
		Last:     time.Duration(fm.last.Load()),
		Max:      time.Duration(fm.max.Load()),
	}
	if s.Frames > 0 {
		s.Min = time.Duration(fm.min.Load())
		s.Average = time.Duration(fm.total.Load() / s.Frames)
	}
	return s
}

// Reset clears all statistics.
func (fm *FrameMetrics) Reset() {
	fm.frames.Store(0)
	fm.failures.Store(0)
	fm.overruns.Store(0)
	fm.last.Store(0)
	fm.min.Store(int64(time.Hour))
	fm.max.Store(0)
	fm.total.Store(0)
}
