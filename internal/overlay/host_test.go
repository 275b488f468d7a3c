package overlay

import (
	"image"
	"testing"
	"time"

	"github.com/opd-ai/go-radial/internal/geometry"
	"github.com/opd-ai/go-radial/internal/menu"
)

type fakeWindow struct {
	positions []image.Point
	sizes     []int
}

func (w *fakeWindow) SetPosition(x, y int) { w.positions = append(w.positions, image.Pt(x, y)) }
func (w *fakeWindow) SetSize(width, _ int) { w.sizes = append(w.sizes, width) }

type fakeSession struct {
	events []menu.Event
	ticks  []time.Time
	done   chan struct{}
}

func newFakeSession() *fakeSession { return &fakeSession{done: make(chan struct{})} }

func (s *fakeSession) HandleEvent(ev menu.Event) { s.events = append(s.events, ev) }
func (s *fakeSession) Tick(now time.Time)        { s.ticks = append(s.ticks, now) }
func (s *fakeSession) Done() <-chan struct{}     { return s.done }

func TestHostPresent(t *testing.T) {
	w := &fakeWindow{}
	h := newHost(HostOptions{}, w)

	frame := image.NewRGBA(image.Rect(0, 0, 440, 440))
	if err := h.Present(frame, image.Pt(380, 280)); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if len(w.sizes) != 1 || w.sizes[0] != 440 {
		t.Errorf("sizes = %v, want [440]", w.sizes)
	}
	if len(w.positions) != 1 || w.positions[0] != image.Pt(380, 280) {
		t.Errorf("positions = %v, want [(380,280)]", w.positions)
	}
	if got, _ := h.Layout(0, 0); got != 440 {
		t.Errorf("Layout() = %d, want 440", got)
	}

	// Same geometry does not touch the window.
	if err := h.Present(frame, image.Pt(380, 280)); err != nil {
		t.Fatal(err)
	}
	if len(w.sizes) != 1 || len(w.positions) != 1 {
		t.Errorf("unchanged present moved window: sizes=%v positions=%v", w.sizes, w.positions)
	}
	if h.Origin() != image.Pt(380, 280) {
		t.Errorf("Origin() = %v", h.Origin())
	}
}

func TestHostPresentRejectsBadFrames(t *testing.T) {
	h := newHost(HostOptions{}, &fakeWindow{})
	if err := h.Present(nil, image.Point{}); err == nil {
		t.Error("Present(nil) succeeded")
	}
	if err := h.Present(image.NewRGBA(image.Rect(0, 0, 10, 20)), image.Point{}); err == nil {
		t.Error("Present(non-square) succeeded")
	}
}

func TestHostHide(t *testing.T) {
	h := newHost(HostOptions{}, &fakeWindow{})
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	_ = h.Present(frame, image.Point{})
	if err := h.Hide(); err != nil {
		t.Fatal(err)
	}
	if !h.hidden {
		t.Error("Hide() did not hide")
	}
	_ = h.Present(frame, image.Point{})
	if h.hidden {
		t.Error("Present() after Hide() stayed hidden")
	}
}

func TestHostDrag(t *testing.T) {
	w := &fakeWindow{}
	h := newHost(HostOptions{}, w)
	s := newFakeSession()
	h.SetSession(s)
	_ = h.Present(image.NewRGBA(image.Rect(0, 0, 440, 440)), image.Pt(100, 100))

	// Grab the hub at its centre.
	h.BeginDrag(image.Pt(320, 320))

	held := inputFrame{Pos: geometry.Pt(230, 220), Focused: true}
	held.Held[menu.ButtonLeft] = true
	h.step(s, held, time.Unix(1, 0))
	if got := h.Origin(); got != image.Pt(110, 100) {
		t.Errorf("Origin() after drag = %v, want (110,100)", got)
	}
	if last := w.positions[len(w.positions)-1]; last != image.Pt(110, 100) {
		t.Errorf("window moved to %v, want (110,100)", last)
	}

	// Releasing ends the drag; further motion does not move the window.
	moves := len(w.positions)
	h.step(s, inputFrame{Pos: geometry.Pt(300, 300), Focused: true}, time.Unix(2, 0))
	h.step(s, inputFrame{Pos: geometry.Pt(10, 10), Focused: true}, time.Unix(3, 0))
	if len(w.positions) != moves {
		t.Errorf("window moved after release: %v", w.positions[moves:])
	}
}

func TestHostStepDeliversEventsThenTicks(t *testing.T) {
	h := newHost(HostOptions{}, &fakeWindow{})
	s := newFakeSession()
	h.SetSession(s)

	now := time.Unix(50, 0)
	f := inputFrame{Pos: geometry.Pt(1, 2), Focused: true}
	f.Pressed[menu.ButtonLeft] = true
	h.step(s, f, now)

	if len(s.events) != 2 {
		t.Fatalf("events = %v, want move and down", s.events)
	}
	if _, ok := s.events[1].(menu.PointerDown); !ok {
		t.Errorf("events[1] = %T, want PointerDown", s.events[1])
	}
	if len(s.ticks) != 1 || !s.ticks[0].Equal(now) {
		t.Errorf("ticks = %v, want [%v]", s.ticks, now)
	}
}

func TestHostUpdateWithoutSession(t *testing.T) {
	h := newHost(HostOptions{}, &fakeWindow{})
	if err := h.Update(); err != nil {
		t.Errorf("Update() = %v, want nil", err)
	}
}

func TestNewHostDefaults(t *testing.T) {
	h := newHost(HostOptions{}, &fakeWindow{})
	if h.opts.Hints != OverlayHints {
		t.Errorf("Hints = %+v, want OverlayHints", h.opts.Hints)
	}
	if h.opts.Title == "" {
		t.Error("Title is empty")
	}
}
