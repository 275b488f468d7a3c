package render

import (
	"fmt"
	"testing"
	"time"

	"github.com/opd-ai/go-radial/internal/config"
	"github.com/opd-ai/go-radial/internal/geometry"
)

func benchScene(b *testing.B, layers int) (*Compositor, Scene) {
	b.Helper()
	s := config.DefaultSettings()
	s.Ring.LayerCount = layers
	size := s.WindowSize()
	c, err := NewCompositor(size)
	if err != nil {
		b.Fatalf("NewCompositor() error = %v", err)
	}
	b.Cleanup(func() { c.Close() })
	half := float64(size) / 2
	return c, Scene{
		Ring:   s.RingConfig(),
		Center: geometry.Pt(half, half),
		Hover:  geometry.None,
		Theme:  NewTheme(s.Theme),
		Labels: s,
	}
}

func BenchmarkCompositorRender(b *testing.B) {
	for _, layers := range []int{1, 2, 3} {
		c, scene := benchScene(b, layers)
		b.Run(fmt.Sprintf("layers=%d", layers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := c.Render(scene); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCompositorRenderHover(b *testing.B) {
	c, scene := benchScene(b, 3)
	targets := []geometry.Target{
		geometry.Hub,
		geometry.CategoryTarget(3),
		geometry.EntryTarget(5, 2, 1),
		geometry.EntryTarget(7, 3, 3),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scene.Hover = targets[i%len(targets)]
		if _, err := c.Render(scene); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHitTest(b *testing.B) {
	s := config.DefaultSettings()
	rc := s.RingConfig()
	center := geometry.Pt(220, 220)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = geometry.HitTest(geometry.Pt(float64(i%440), float64((i/440)%440)), center, rc)
	}
}

func BenchmarkFrameMetricsRecordFrame(b *testing.B) {
	fm := NewFrameMetrics()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fm.RecordFrame(time.Duration(i%20) * time.Millisecond)
	}
}

func BenchmarkFrameMetricsConcurrent(b *testing.B) {
	fm := NewFrameMetrics()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			fm.RecordFrame(5 * time.Millisecond)
			_ = fm.Snapshot()
		}
	})
}
