// Package menu implements the hover and selection state machine of the
// radial menu.
//
// The machine is a pure transition function: Handle consumes one typed Event
// and returns the Effects its owner must perform. It never reads a clock or
// starts a timer itself, so double click and debounce handling can be driven
// deterministically from tests.
package menu

import (
	"time"

	"github.com/opd-ai/go-radial/internal/geometry"
)

// Phase is the coarse state of the machine.
type Phase int

const (
	// Idle means nothing selectable is hovered.
	Idle Phase = iota
	// HoveringCategory means a category ring sector is hovered.
	HoveringCategory
	// HoveringEntry means a leaf entry is hovered.
	HoveringEntry
	// PendingDispatch means an entry click is waiting out the debounce window.
	PendingDispatch
	// Closed is terminal.
	Closed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case HoveringCategory:
		return "hovering_category"
	case HoveringEntry:
		return "hovering_entry"
	case PendingDispatch:
		return "pending_dispatch"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Timing holds the double click windows and the dispatch delay.
type Timing struct {
	// Debounce is how long an entry click waits before it dispatches.
	Debounce time.Duration
	// EntryDoubleClick is the window for a second click on the same entry.
	EntryDoubleClick time.Duration
	// CategoryDoubleClick is the window for a second click on the same category.
	CategoryDoubleClick time.Duration
	// HubDoubleClick is the window for a second press on the hub.
	HubDoubleClick time.Duration
	// FocusGrace is how long the overlay may stay unfocused after a dialog
	// closes before the menu closes. Window managers hand focus back late.
	FocusGrace time.Duration
}

// DefaultTiming returns the standard windows.
func DefaultTiming() Timing {
	return Timing{
		Debounce:            350 * time.Millisecond,
		EntryDoubleClick:    350 * time.Millisecond,
		CategoryDoubleClick: 400 * time.Millisecond,
		HubDoubleClick:      400 * time.Millisecond,
		FocusGrace:          250 * time.Millisecond,
	}
}

// withDefaults fills zero fields from DefaultTiming.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.Debounce <= 0 {
		t.Debounce = d.Debounce
	}
	if t.EntryDoubleClick <= 0 {
		t.EntryDoubleClick = d.EntryDoubleClick
	}
	if t.CategoryDoubleClick <= 0 {
		t.CategoryDoubleClick = d.CategoryDoubleClick
	}
	if t.HubDoubleClick <= 0 {
		t.HubDoubleClick = d.HubDoubleClick
	}
	if t.FocusGrace <= 0 {
		t.FocusGrace = d.FocusGrace
	}
	return t
}

// Resolver maps an entry target to its command token. ok is false for an
// empty entry, which must not dispatch. An empty token with ok set is a real
// selection.
type Resolver interface {
	Command(t geometry.Target) (token string, ok bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(t geometry.Target) (string, bool)

// Command calls f(t).
func (f ResolverFunc) Command(t geometry.Target) (string, bool) {
	return f(t)
}

type click struct {
	target geometry.Target
	at     time.Time
	valid  bool
}

// Machine tracks hover, pending dispatch and click history for one menu
// instance. It is not safe for concurrent use; all events must come from the
// UI thread.
type Machine struct {
	ring     geometry.RingConfig
	center   geometry.Point
	timing   Timing
	resolver Resolver

	hover geometry.Target

	pending    geometry.Target
	hasPending bool
	seq        uint64
	deadline   time.Time

	lastClick click
	lastHub   click

	modal bool
	// unfocused is set when focus went away while modal and cleared when it
	// comes back.
	unfocused  bool
	focusCheck bool

	closed bool
}

// New creates a machine for the given geometry. center is the menu center in
// window coordinates. Zero Timing fields take their defaults.
func New(ring geometry.RingConfig, center geometry.Point, timing Timing, resolver Resolver) *Machine {
	if resolver == nil {
		resolver = ResolverFunc(func(geometry.Target) (string, bool) { return "", false })
	}
	return &Machine{
		ring:     ring,
		center:   center,
		timing:   timing.withDefaults(),
		resolver: resolver,
		hover:    geometry.None,
		pending:  geometry.None,
	}
}

// Phase returns the current coarse state.
func (m *Machine) Phase() Phase {
	switch {
	case m.closed:
		return Closed
	case m.hasPending:
		return PendingDispatch
	case m.hover.IsEntry():
		return HoveringEntry
	case m.hover.IsCategory():
		return HoveringCategory
	default:
		return Idle
	}
}

// Hover returns the target currently under the pointer.
func (m *Machine) Hover() geometry.Target { return m.hover }

// Pending returns the entry awaiting dispatch and its deadline.
func (m *Machine) Pending() (geometry.Target, time.Time, bool) {
	return m.pending, m.deadline, m.hasPending
}

// Modal reports whether a dialog is open.
func (m *Machine) Modal() bool { return m.modal }

// Ring returns the active geometry.
func (m *Machine) Ring() geometry.RingConfig { return m.ring }

// Center returns the menu center in window coordinates.
func (m *Machine) Center() geometry.Point { return m.center }

// Timing returns the active windows.
func (m *Machine) Timing() Timing { return m.timing }

// Handle applies ev and returns the effects to perform, in order. Once the
// machine is closed every event yields no effects.
func (m *Machine) Handle(ev Event) []Effect {
	if m.closed {
		return nil
	}

	switch e := ev.(type) {
	case PointerMove:
		return m.onMove(e)
	case PointerDown:
		return m.onDown(e)
	case PointerUp:
		return m.onUp(e)
	case TimerFired:
		return m.onTimer(e)
	case FocusLost:
		if m.modal {
			m.unfocused = true
			return nil
		}
		return m.close(ReasonFocusLost)
	case FocusGained:
		m.unfocused = false
		return nil
	case KeyCancel:
		if m.modal {
			return nil
		}
		return m.close(ReasonKey)
	case DialogClosed:
		return m.onDialogClosed(e)
	case LayoutChanged:
		m.ring = e.Ring
		m.center = e.Center
		m.hover = geometry.None
		return []Effect{Redraw{}}
	case Dismiss:
		return m.close(ReasonDismissed)
	default:
		return nil
	}
}

func (m *Machine) onMove(e PointerMove) []Effect {
	if m.modal {
		return nil
	}
	t := geometry.HitTest(e.Pos, m.center, m.ring)
	if t == m.hover {
		return nil
	}
	m.hover = t
	return []Effect{Redraw{}}
}

func (m *Machine) onDown(e PointerDown) []Effect {
	if m.modal || e.Button != ButtonLeft {
		return nil
	}
	if geometry.HitTest(e.Pos, m.center, m.ring) != geometry.Hub {
		return nil
	}

	if m.lastHub.valid && e.At.Sub(m.lastHub.at) < m.timing.HubDoubleClick {
		m.lastHub = click{}
		return m.openDialog(DialogSettings, geometry.Hub)
	}
	m.lastHub = click{target: geometry.Hub, at: e.At, valid: true}
	return []Effect{BeginDrag{Pos: e.Pos}}
}

func (m *Machine) onUp(e PointerUp) []Effect {
	if m.modal {
		return nil
	}
	switch e.Button {
	case ButtonRight:
		return m.close(ReasonRightClick)
	case ButtonLeft:
	default:
		return nil
	}

	t := geometry.HitTest(e.Pos, m.center, m.ring)
	switch {
	case t.IsCategory():
		if m.repeats(t, e.At, m.timing.CategoryDoubleClick) {
			m.lastClick = click{}
			return m.openDialog(DialogRenameCategory, t)
		}
		m.lastClick = click{target: t, at: e.At, valid: true}
		return nil

	case t.IsEntry():
		if m.repeats(t, e.At, m.timing.EntryDoubleClick) {
			m.lastClick = click{}
			return m.openDialog(DialogEditEntry, t)
		}
		m.lastClick = click{target: t, at: e.At, valid: true}

		var effects []Effect
		if m.hasPending || m.focusCheck {
			effects = append(effects, CancelTimer{Seq: m.seq})
			m.focusCheck = false
		}
		m.seq++
		m.pending = t
		m.hasPending = true
		m.deadline = e.At.Add(m.timing.Debounce)
		return append(effects, ArmTimer{Seq: m.seq, Deadline: m.deadline})
	}
	return nil
}

func (m *Machine) repeats(t geometry.Target, at time.Time, window time.Duration) bool {
	return m.lastClick.valid && m.lastClick.target == t && at.Sub(m.lastClick.at) < window
}

// onDialogClosed leaves modal mode. If the overlay lost focus to the dialog
// and has not got it back, a focus check is armed: the menu closes unless
// focus returns within the grace period.
func (m *Machine) onDialogClosed(e DialogClosed) []Effect {
	m.modal = false
	effects := []Effect{Redraw{}}
	if !m.unfocused || m.hasPending {
		return effects
	}
	m.seq++
	m.focusCheck = true
	return append(effects, ArmTimer{Seq: m.seq, Deadline: e.At.Add(m.timing.FocusGrace)})
}

func (m *Machine) onTimer(e TimerFired) []Effect {
	// A fire from a superseded or canceled arm is stale.
	if e.Seq != m.seq {
		return nil
	}
	if m.focusCheck {
		m.focusCheck = false
		if m.unfocused && !m.modal {
			m.unfocused = false
			return m.close(ReasonFocusLost)
		}
		return nil
	}
	if !m.hasPending {
		return nil
	}
	t := m.pending
	m.clearPending()

	token, ok := m.resolver.Command(t)
	if !ok {
		return nil
	}
	m.closed = true
	return []Effect{Close{Reason: ReasonCommand}, EmitCommand{Token: token, Target: t}}
}

// openDialog cancels any pending dispatch or focus check and marks the
// machine modal.
func (m *Machine) openDialog(kind DialogKind, t geometry.Target) []Effect {
	effects := m.cancelTimer()
	m.modal = true
	return append(effects, OpenDialog{Kind: kind, Target: t})
}

func (m *Machine) close(reason CloseReason) []Effect {
	effects := m.cancelTimer()
	m.closed = true
	return append(effects, Close{Reason: reason})
}

func (m *Machine) cancelTimer() []Effect {
	if !m.hasPending && !m.focusCheck {
		return nil
	}
	m.clearPending()
	m.focusCheck = false
	return []Effect{CancelTimer{Seq: m.seq}}
}

func (m *Machine) clearPending() {
	m.pending = geometry.None
	m.hasPending = false
	m.deadline = time.Time{}
}
