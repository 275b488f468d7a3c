package menu

import (
	"time"

	"github.com/opd-ai/go-radial/internal/geometry"
)

// Button identifies a pointer button.
type Button int

const (
	// ButtonLeft is the primary button.
	ButtonLeft Button = iota
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonMiddle is the middle button.
	ButtonMiddle
)

// Event is an input consumed by Machine.Handle.
type Event interface {
	isEvent()
}

// PointerMove reports the pointer position in window coordinates.
type PointerMove struct {
	Pos geometry.Point
}

// PointerDown reports a button press.
type PointerDown struct {
	Pos    geometry.Point
	Button Button
	At     time.Time
}

// PointerUp reports a button release.
type PointerUp struct {
	Pos    geometry.Point
	Button Button
	At     time.Time
}

// TimerFired reports that the debounce timer armed with Seq has elapsed.
type TimerFired struct {
	Seq uint64
	At  time.Time
}

// FocusLost reports that the overlay lost input focus.
type FocusLost struct{}

// FocusGained reports that the overlay has input focus again.
type FocusGained struct{}

// KeyCancel reports an escape key press.
type KeyCancel struct{}

// DialogClosed reports that the modal surface opened by OpenDialog finished.
type DialogClosed struct {
	At time.Time
}

// LayoutChanged replaces the ring geometry after a settings change. Center is
// the menu center in the resized window.
type LayoutChanged struct {
	Ring   geometry.RingConfig
	Center geometry.Point
}

// Dismiss closes the menu from outside, for example when another menu
// replaces it.
type Dismiss struct{}

func (PointerMove) isEvent()   {}
func (PointerDown) isEvent()   {}
func (PointerUp) isEvent()     {}
func (TimerFired) isEvent()    {}
func (FocusLost) isEvent()     {}
func (FocusGained) isEvent()   {}
func (KeyCancel) isEvent()     {}
func (DialogClosed) isEvent()  {}
func (LayoutChanged) isEvent() {}
func (Dismiss) isEvent()       {}

// DialogKind selects which modal surface to open.
type DialogKind int

const (
	// DialogSettings is the general settings panel.
	DialogSettings DialogKind = iota
	// DialogRenameCategory edits a category display name.
	DialogRenameCategory
	// DialogEditEntry edits an entry name and command.
	DialogEditEntry
)

// String returns the dialog name used in logs.
func (k DialogKind) String() string {
	switch k {
	case DialogSettings:
		return "settings"
	case DialogRenameCategory:
		return "rename_category"
	case DialogEditEntry:
		return "edit_entry"
	default:
		return "unknown"
	}
}

// CloseReason records why the menu closed.
type CloseReason int

const (
	// ReasonCommand means a command was committed.
	ReasonCommand CloseReason = iota
	// ReasonRightClick means the right button was released.
	ReasonRightClick
	// ReasonKey means the cancel key was pressed.
	ReasonKey
	// ReasonFocusLost means the overlay lost focus.
	ReasonFocusLost
	// ReasonDismissed means the host closed the menu.
	ReasonDismissed
)

// String returns the reason name used in logs.
func (r CloseReason) String() string {
	switch r {
	case ReasonCommand:
		return "command"
	case ReasonRightClick:
		return "right_click"
	case ReasonKey:
		return "key"
	case ReasonFocusLost:
		return "focus_lost"
	case ReasonDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// Effect is an action the owner of a Machine must carry out.
type Effect interface {
	isEffect()
}

// Redraw asks for the overlay to be recomposed.
type Redraw struct{}

// OpenDialog asks for a modal surface. Target is the category or entry being
// edited, or geometry.Hub for the settings panel.
type OpenDialog struct {
	Kind   DialogKind
	Target geometry.Target
}

// EmitCommand carries the committed command token.
type EmitCommand struct {
	Token  string
	Target geometry.Target
}

// Close tears the overlay down.
type Close struct {
	Reason CloseReason
}

// BeginDrag hands a hub press to the window system as a move gesture.
type BeginDrag struct {
	Pos geometry.Point
}

// ArmTimer schedules a TimerFired{Seq} at Deadline. Arming a new sequence
// supersedes every earlier one. The same timer drives the dispatch debounce
// and the focus check after a dialog.
type ArmTimer struct {
	Seq      uint64
	Deadline time.Time
}

// CancelTimer stops the timer armed with Seq.
type CancelTimer struct {
	Seq uint64
}

func (Redraw) isEffect()      {}
func (OpenDialog) isEffect()  {}
func (EmitCommand) isEffect() {}
func (Close) isEffect()       {}
func (BeginDrag) isEffect()   {}
func (ArmTimer) isEffect()    {}
func (CancelTimer) isEffect() {}
