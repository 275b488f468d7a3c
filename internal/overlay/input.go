package overlay

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/opd-ai/go-radial/internal/geometry"
	"github.com/opd-ai/go-radial/internal/menu"
)

const buttonCount = 3

// inputFrame is the input observed during one tick.
type inputFrame struct {
	Pos geometry.Point
	// Pressed and Released hold this tick's edges, indexed by menu.Button.
	Pressed  [buttonCount]bool
	Released [buttonCount]bool
	// Held is the current button state.
	Held    [buttonCount]bool
	Escape  bool
	Focused bool
}

var ebitenButtons = [buttonCount]ebiten.MouseButton{
	menu.ButtonLeft:   ebiten.MouseButtonLeft,
	menu.ButtonRight:  ebiten.MouseButtonRight,
	menu.ButtonMiddle: ebiten.MouseButtonMiddle,
}

// pollInput reads the ebiten input state. It must run inside Update.
func pollInput() inputFrame {
	x, y := ebiten.CursorPosition()
	f := inputFrame{
		Pos:     geometry.Pt(float64(x), float64(y)),
		Escape:  inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Focused: ebiten.IsFocused(),
	}
	for i, b := range ebitenButtons {
		f.Pressed[i] = inpututil.IsMouseButtonJustPressed(b)
		f.Released[i] = inpututil.IsMouseButtonJustReleased(b)
		f.Held[i] = ebiten.IsMouseButtonPressed(b)
	}
	return f
}

// inputTracker turns input frames into menu events. Moves are reported only
// when the position changes. Focus changes are reported on each transition,
// but only after the window has had focus once, since the overlay may map
// unfocused.
type inputTracker struct {
	last      geometry.Point
	primed    bool
	focused   bool
	focusSeen bool
}

func (it *inputTracker) events(f inputFrame, now time.Time) []menu.Event {
	var evs []menu.Event
	if !it.primed || f.Pos != it.last {
		evs = append(evs, menu.PointerMove{Pos: f.Pos})
		it.last = f.Pos
		it.primed = true
	}
	for b := range buttonCount {
		if f.Pressed[b] {
			evs = append(evs, menu.PointerDown{Pos: f.Pos, Button: menu.Button(b), At: now})
		}
	}
	for b := range buttonCount {
		if f.Released[b] {
			evs = append(evs, menu.PointerUp{Pos: f.Pos, Button: menu.Button(b), At: now})
		}
	}
	if f.Escape {
		evs = append(evs, menu.KeyCancel{})
	}
	switch {
	case f.Focused && it.focusSeen && !it.focused:
		evs = append(evs, menu.FocusGained{})
	case !f.Focused && it.focusSeen && it.focused:
		evs = append(evs, menu.FocusLost{})
	}
	if f.Focused {
		it.focusSeen = true
	}
	it.focused = f.Focused
	return evs
}

// dragStep returns the window origin that puts the grabbed point back under
// the cursor. grab and cursor are in window coordinates.
func dragStep(origin, grab, cursor image.Point) image.Point {
	return origin.Add(cursor.Sub(grab))
}
