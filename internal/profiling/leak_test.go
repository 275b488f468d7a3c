package profiling

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestTakeSnapshot(t *testing.T) {
	s := TakeSnapshot()
	if s.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
	if s.Goroutines < 1 {
		t.Errorf("Goroutines = %d, want >= 1", s.Goroutines)
	}
	if s.HeapAlloc == 0 {
		t.Error("HeapAlloc = 0")
	}
}

func TestCompare(t *testing.T) {
	t0 := time.Unix(100, 0)
	before := Snapshot{Timestamp: t0, HeapAlloc: 10 * MB, HeapObjects: 500, Goroutines: 4}
	after := Snapshot{Timestamp: t0.Add(2 * time.Second), HeapAlloc: 9 * MB, HeapObjects: 520, Goroutines: 7}

	g := Compare(before, after)
	if g.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v", g.Elapsed)
	}
	if g.HeapAllocDelta != -MB {
		t.Errorf("HeapAllocDelta = %d, want %d", g.HeapAllocDelta, -MB)
	}
	if g.HeapObjectsDelta != 20 || g.GoroutineDelta != 3 {
		t.Errorf("deltas = %+v", g)
	}
}

func TestGrowthLeaks(t *testing.T) {
	th := DefaultLeakThresholds()
	tests := []struct {
		name   string
		g      Growth
		want   bool
		reason string
	}{
		{"clean", Growth{GoroutineDelta: 0, HeapAllocDelta: KB}, false, ""},
		{"within slack", Growth{GoroutineDelta: th.Goroutines}, false, ""},
		{"goroutines", Growth{GoroutineDelta: th.Goroutines + 1}, true, "goroutines"},
		{"heap", Growth{HeapAllocDelta: th.HeapBytes + 1}, true, "heap grew"},
		{"shrink", Growth{HeapAllocDelta: -100 * MB, GoroutineDelta: -3}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := tt.g.Leaks(th)
			if got != tt.want {
				t.Errorf("Leaks() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(reason, tt.reason) {
				t.Errorf("reason = %q, want it to mention %q", reason, tt.reason)
			}
		})
	}
}

func TestGrowthString(t *testing.T) {
	g := Growth{Elapsed: 1500 * time.Millisecond, HeapAllocDelta: -2 * KB, HeapObjectsDelta: 3, GoroutineDelta: -1}
	got := g.String()
	for _, want := range []string{"heap -2.00 KB", "objects +3", "goroutines -1", "1.5s"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestSettle(t *testing.T) {
	base := runtime.NumGoroutine()
	stop := make(chan struct{})
	go func() { <-stop }()
	time.AfterFunc(20*time.Millisecond, func() { close(stop) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s := Settle(ctx, base, 5*time.Millisecond)
	if ctx.Err() != nil {
		t.Fatalf("Settle() waited for the deadline, goroutines = %d", s.Goroutines)
	}
}

func TestSettleDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	Settle(ctx, 0, 5*time.Millisecond)
	if time.Since(start) > time.Second {
		t.Error("Settle() ignored the context deadline")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{KB, "1.00 KB"},
		{3 * MB / 2, "1.50 MB"},
		{2 * GB, "2.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
