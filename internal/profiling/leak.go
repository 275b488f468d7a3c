package profiling

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Byte size constants for memory formatting
const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
)

// Snapshot is a point-in-time memory measurement.
type Snapshot struct {
	Timestamp   time.Time
	HeapAlloc   uint64
	HeapObjects uint64
	Goroutines  int
}

// TakeSnapshot collects garbage and then measures the heap and goroutines.
func TakeSnapshot() Snapshot {
	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Snapshot{
		Timestamp:   time.Now(),
		HeapAlloc:   ms.HeapAlloc,
		HeapObjects: ms.HeapObjects,
		Goroutines:  runtime.NumGoroutine(),
	}
}

// Growth is the change between two snapshots.
type Growth struct {
	Elapsed          time.Duration
	HeapAllocDelta   int64
	HeapObjectsDelta int64
	GoroutineDelta   int
}

// Compare returns the growth from before to after.
func Compare(before, after Snapshot) Growth {
	return Growth{
		Elapsed:          after.Timestamp.Sub(before.Timestamp),
		HeapAllocDelta:   int64(after.HeapAlloc) - int64(before.HeapAlloc),
		HeapObjectsDelta: int64(after.HeapObjects) - int64(before.HeapObjects),
		GoroutineDelta:   after.Goroutines - before.Goroutines,
	}
}

// LeakThresholds decide when growth over a menu session is suspicious.
type LeakThresholds struct {
	// Goroutines is the net goroutine increase tolerated.
	Goroutines int
	// HeapBytes is the net heap growth tolerated.
	HeapBytes int64
}

// DefaultLeakThresholds allow for the runtime's own lazily started
// goroutines and caches such as the label layout cache.
func DefaultLeakThresholds() LeakThresholds {
	return LeakThresholds{Goroutines: 2, HeapBytes: 4 * MB}
}

// Leaks reports whether g exceeds th, with the reason.
func (g Growth) Leaks(th LeakThresholds) (bool, string) {
	switch {
	case g.GoroutineDelta > th.Goroutines:
		return true, fmt.Sprintf("%d goroutines left running", g.GoroutineDelta)
	case g.HeapAllocDelta > th.HeapBytes:
		return true, fmt.Sprintf("heap grew by %s", FormatBytes(uint64(g.HeapAllocDelta)))
	default:
		return false, ""
	}
}

// String summarises the growth for logs.
func (g Growth) String() string {
	sign := "+"
	if g.HeapAllocDelta < 0 {
		sign = "-"
	}
	return fmt.Sprintf("heap %s%s, objects %+d, goroutines %+d over %s",
		sign, FormatBytes(uint64(abs(g.HeapAllocDelta))),
		g.HeapObjectsDelta, g.GoroutineDelta, g.Elapsed.Round(time.Millisecond))
}

// Settle waits until the goroutine count drops to at most target, polling
// every interval, and returns the final snapshot. Goroutines of a closed
// session, such as the settings watcher, exit asynchronously.
func Settle(ctx context.Context, target int, interval time.Duration) Snapshot {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if runtime.NumGoroutine() <= target {
			return TakeSnapshot()
		}
		select {
		case <-ctx.Done():
			return TakeSnapshot()
		case <-ticker.C:
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

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
