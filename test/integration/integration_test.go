//go:build integration

// Package integration provides end-to-end tests that drive menu sessions
// through the public API against settings files on disk.
//
// The overlay window is replaced by an in-memory presenter because ebiten
// needs a display that is not available in CI.
package integration

import (
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/go-radial/internal/config"
	"github.com/opd-ai/go-radial/internal/geometry"
	"github.com/opd-ai/go-radial/internal/menu"
	"github.com/opd-ai/go-radial/pkg/radial"
)

type memPresenter struct {
	mu     sync.Mutex
	frame  *image.RGBA
	origin image.Point
	hidden bool
}

func (p *memPresenter) Present(frame *image.RGBA, origin image.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame, p.origin, p.hidden = frame, origin, false
	return nil
}

func (p *memPresenter) Origin() image.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.origin
}

func (p *memPresenter) BeginDrag(image.Point) {}

func (p *memPresenter) Hide() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = true
	return nil
}

type editSurfaces struct {
	entry config.MenuEntry
}

func (s editSurfaces) RenameCategory(string) (string, error) { return "", radial.ErrCanceled }
func (s editSurfaces) EditEntry(config.MenuEntry) (config.MenuEntry, error) {
	return s.entry, nil
}
func (s editSurfaces) SettingsPanel(*config.Settings) (radial.SettingsChoice, error) {
	return radial.SettingsChoice{}, radial.ErrCanceled
}
func (s editSurfaces) Notice(string, string) error { return nil }

// writeSettings saves a one-layer menu whose first entry is Box.
func writeSettings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	s := config.DefaultSettings()
	s.Ring.LayerCount = 1
	s.SetItem(1, 2, 0, config.MenuEntry{Name: "Box", Command: "_Box"})
	if err := config.NewStore(path).Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return path
}

// entryPoint returns the window position at the middle of t.
func entryPoint(c *radial.Controller, t geometry.Target) geometry.Point {
	s := c.Settings()
	half := float64(c.Status().Size) / 2
	sec, _ := geometry.SectorFor(geometry.Pt(half, half), s.RingConfig(), t)
	return sec.Mid()
}

func click(c *radial.Controller, p geometry.Point, at time.Time) {
	c.HandleEvent(menu.PointerMove{Pos: p})
	c.HandleEvent(menu.PointerDown{Pos: p, Button: menu.ButtonLeft, At: at})
	c.HandleEvent(menu.PointerUp{Pos: p, Button: menu.ButtonLeft, At: at})
}

func newManager(path string, p radial.Presenter, s radial.Surfaces) *radial.Manager {
	return radial.NewManager(radial.Options{
		ConfigPath: path,
		Presenter:  p,
		Surfaces:   s,
		RunDialog:  func(f func()) { f() },
	})
}

// TestSessionDispatchesFromSettingsFile opens a menu from a saved file,
// selects an entry and waits out the debounce.
func TestSessionDispatchesFromSettingsFile(t *testing.T) {
	path := writeSettings(t)
	p := &memPresenter{}
	m := newManager(path, p, nil)
	defer m.Close()

	c, err := m.Open(image.Pt(500, 400))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	// One layer: (45 + 45 + 50) * 2 + 60.
	if got := c.Status().Size; got != 340 {
		t.Fatalf("Size = %d, want 340", got)
	}
	if p.frame == nil || p.origin != image.Pt(330, 230) {
		t.Fatalf("presented origin = %v", p.origin)
	}

	box := geometry.EntryTarget(2, 1, 0)
	t0 := time.Now()
	click(c, entryPoint(c, box), t0)
	c.Tick(t0.Add(100 * time.Millisecond))
	if c.SelectedCommand() != "" {
		t.Fatal("dispatched inside the debounce window")
	}
	c.Tick(t0.Add(time.Second))

	select {
	case <-c.Done():
	default:
		t.Fatal("menu still open after the debounce window")
	}
	if got := c.SelectedCommand(); got != "_Box" {
		t.Errorf("SelectedCommand() = %q, want _Box", got)
	}
	if !p.hidden {
		t.Error("presenter not hidden after dispatch")
	}
	if m.Current() != nil {
		t.Error("manager still reports an open menu")
	}
	if snap := m.Metrics().Snapshot(); snap.CommandsDispatched != 1 || snap.ActiveSessions != 0 {
		t.Errorf("metrics = %+v", snap)
	}
}

// TestEditIsPersisted double clicks an entry and checks that the edit
// reaches the settings file and the next session.
func TestEditIsPersisted(t *testing.T) {
	path := writeSettings(t)
	edited := config.MenuEntry{Name: "Cone", Command: "_Cone"}
	m := newManager(path, &memPresenter{}, editSurfaces{entry: edited})
	defer m.Close()

	c, err := m.Open(image.Pt(500, 400))
	if err != nil {
		t.Fatal(err)
	}
	box := geometry.EntryTarget(2, 1, 0)
	t0 := time.Now()
	pt := entryPoint(c, box)
	click(c, pt, t0)
	click(c, pt, t0.Add(100*time.Millisecond))
	c.Tick(t0.Add(150 * time.Millisecond))
	c.Tick(t0.Add(time.Second))
	if c.SelectedCommand() != "" {
		t.Fatal("double click dispatched")
	}

	res := config.NewStore(path).Load()
	if res.FromDefaults {
		t.Fatalf("settings file unreadable after edit: %v", res.Err)
	}
	if got := res.Settings.ItemAt(box); got != edited {
		t.Errorf("saved entry = %+v, want %+v", got, edited)
	}

	next, err := m.Open(image.Pt(500, 400))
	if err != nil {
		t.Fatal(err)
	}
	if got := next.Settings().ItemAt(box); got != edited {
		t.Errorf("next session entry = %+v", got)
	}
	if m.Metrics().Snapshot().SessionsReplaced != 1 {
		t.Error("reopening did not replace the open session")
	}
}

// TestExternalEditReloads rewrites the settings file while a session is open.
func TestExternalEditReloads(t *testing.T) {
	path := writeSettings(t)
	m := radial.NewManager(radial.Options{
		ConfigPath:    path,
		Presenter:     &memPresenter{},
		WatchConfig:   true,
		WatchDebounce: 20 * time.Millisecond,
	})
	defer m.Close()

	c, err := m.Open(image.Pt(500, 400))
	if err != nil {
		t.Fatal(err)
	}

	s := config.DefaultSettings()
	s.Ring.LayerCount = 3
	if err := config.NewStore(path).Save(s); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		c.Tick(time.Now())
		if c.Status().Size == 540 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("Size = %d after external edit, want 540", c.Status().Size)
}

// TestMalformedFileStillOpens checks the defaults fallback end to end.
func TestMalformedFileStillOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	if err := os.WriteFile(path, []byte("radial.settings = {"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := newManager(path, &memPresenter{}, nil)
	defer m.Close()

	c, err := m.Open(image.Pt(500, 400))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := c.Status().Size; got != 440 {
		t.Errorf("Size = %d, want default 440", got)
	}
}
