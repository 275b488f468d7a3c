// Package overlay shows radial menu frames in a borderless, transparent,
// always-on-top ebiten window and turns the window's input into menu events.
//
// The Host implements the presenter side of a menu session: the session
// pushes composed frames with Present, and Host.Update feeds pointer,
// keyboard and focus changes back into the session every tick.
package overlay

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-radial/internal/menu"
)

// Session is the menu driven by a Host.
type Session interface {
	HandleEvent(ev menu.Event)
	Tick(now time.Time)
	Done() <-chan struct{}
}

// window is the part of the ebiten window API used by Host.
type window interface {
	SetPosition(x, y int)
	SetSize(w, h int)
}

type ebitenWindow struct{}

func (ebitenWindow) SetPosition(x, y int) { ebiten.SetWindowPosition(x, y) }
func (ebitenWindow) SetSize(w, h int)     { ebiten.SetWindowSize(w, h) }

// HostOptions configures a Host.
type HostOptions struct {
	// Title is the window title shown by window managers that ignore the
	// skip-taskbar hint.
	Title string
	// Display, when set, receives the overlay window hints once the window
	// has mapped. Host does not close it.
	Display *Display
	// Hints are applied through Display. Zero means OverlayHints.
	Hints Hints
	// ExitWhenDone stops Run once the session ends.
	ExitWhenDone bool
	// OnError receives non-fatal window errors.
	OnError func(error)
}

// Host is an ebiten.Game presenting menu frames.
type Host struct {
	opts HostOptions
	win  window
	now  func() time.Time

	mu      sync.Mutex
	session Session
	frame   *image.RGBA
	fresh   bool
	hidden  bool
	size    int
	origin  image.Point
	placed  bool
	img     *ebiten.Image

	input inputTracker
	drag  struct {
		active bool
		grab   image.Point
	}
	hinted bool
}

// NewHost creates a Host for the ebiten window.
func NewHost(opts HostOptions) *Host {
	return newHost(opts, ebitenWindow{})
}

func newHost(opts HostOptions, win window) *Host {
	if opts.Hints == (Hints{}) {
		opts.Hints = OverlayHints
	}
	if opts.Title == "" {
		opts.Title = "radial-menu"
	}
	return &Host{opts: opts, win: win, now: time.Now, size: 1}
}

// SetSession attaches the session whose input Host delivers.
func (h *Host) SetSession(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = s
	h.input = inputTracker{}
	h.drag.active = false
}

// Present shows frame with its top-left corner at origin.
func (h *Host) Present(frame *image.RGBA, origin image.Point) error {
	if frame == nil {
		return errors.New("nil frame")
	}
	size := frame.Bounds().Dx()
	if frame.Bounds().Dy() != size {
		return errors.New("overlay frames must be square")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if size != h.size {
		h.size = size
		h.win.SetSize(size, size)
	}
	if !h.placed || origin != h.origin {
		h.origin = origin
		h.placed = true
		h.win.SetPosition(origin.X, origin.Y)
	}
	h.frame = frame
	h.fresh = true
	h.hidden = false
	return nil
}

// Origin returns the window position, including drags.
func (h *Host) Origin() image.Point {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.origin
}

// BeginDrag starts moving the window with the left button. at is in screen
// coordinates.
func (h *Host) BeginDrag(at image.Point) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drag.active = true
	h.drag.grab = at.Sub(h.origin)
}

// Hide blanks the window.
func (h *Host) Hide() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hidden = true
	h.drag.active = false
	return nil
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	h.mu.Lock()
	s := h.session
	h.mu.Unlock()
	if s == nil {
		return nil
	}
	select {
	case <-s.Done():
		if h.opts.ExitWhenDone {
			return ebiten.Termination
		}
		h.SetSession(nil)
		return nil
	default:
	}

	f := pollInput()
	h.applyHints(f.Focused)
	h.step(s, f, h.now())
	return nil
}

// step moves a dragged window, then delivers f to s and advances its clock.
func (h *Host) step(s Session, f inputFrame, now time.Time) {
	h.mu.Lock()
	if h.drag.active {
		if !f.Held[menu.ButtonLeft] {
			h.drag.active = false
		} else if cur := image.Pt(int(f.Pos.X), int(f.Pos.Y)); cur != h.drag.grab {
			h.origin = dragStep(h.origin, h.drag.grab, cur)
			h.win.SetPosition(h.origin.X, h.origin.Y)
		}
	}
	evs := h.input.events(f, now)
	h.mu.Unlock()

	for _, ev := range evs {
		s.HandleEvent(ev)
	}
	s.Tick(now)
}

func (h *Host) applyHints(focused bool) {
	if h.hinted || !focused || h.opts.Display == nil {
		return
	}
	h.hinted = true
	if err := h.opts.Display.ApplyHints(h.opts.Hints); err != nil && h.opts.OnError != nil {
		h.opts.OnError(err)
	}
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	h.mu.Lock()
	defer h.mu.Unlock()

	screen.Clear()
	if h.hidden || h.frame == nil {
		return
	}
	if h.fresh {
		b := h.frame.Bounds()
		if h.img == nil || h.img.Bounds().Dx() != b.Dx() {
			if h.img != nil {
				h.img.Deallocate()
			}
			h.img = ebiten.NewImage(b.Dx(), b.Dy())
		}
		h.img.WritePixels(h.frame.Pix)
		h.fresh = false
	}
	screen.DrawImage(h.img, nil)
}

// Layout implements ebiten.Game.
func (h *Host) Layout(_, _ int) (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size, h.size
}

// Run opens the window and blocks until the window closes or, with
// ExitWhenDone, until the session ends. It may be called once per process.
func (h *Host) Run() error {
	ebiten.SetWindowTitle(h.opts.Title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetRunnableOnUnfocused(true)

	err := ebiten.RunGameWithOptions(h, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       true,
	})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
