package radial

import (
	"image"
	"time"

	"github.com/opd-ai/go-radial/internal/geometry"
	"github.com/opd-ai/go-radial/internal/menu"
)

// ErrorHandler receives errors that the controller recovered from. It runs
// on the goroutine that drove the controller; do not block in it.
type ErrorHandler func(err error)

// EventHandler receives session lifecycle events. It runs on the goroutine
// that drove the controller; do not block in it.
type EventHandler func(event Event)

// CommandHandler receives the token of a committed entry.
type CommandHandler func(token string)

// EventType enumerates session events.
type EventType int

const (
	// EventOpened is emitted once the first frame is on screen.
	EventOpened EventType = iota
	// EventDialogOpened is emitted when a modal surface is requested.
	EventDialogOpened
	// EventSettingsChanged is emitted after a dialog or an external edit
	// changed the settings.
	EventSettingsChanged
	// EventCommandSelected is emitted when a command is dispatched.
	EventCommandSelected
	// EventClosed is emitted when the session ends.
	EventClosed
	// EventError is emitted for every recovered error.
	EventError
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventOpened:
		return "opened"
	case EventDialogOpened:
		return "dialog_opened"
	case EventSettingsChanged:
		return "settings_changed"
	case EventCommandSelected:
		return "command_selected"
	case EventClosed:
		return "closed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event describes one session transition.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Session   SessionID
	Message   string
	// Command is set for EventCommandSelected.
	Command string
}

// Status is a snapshot of a controller.
type Status struct {
	Session  SessionID
	Open     bool
	Phase    menu.Phase
	Hover    geometry.Target
	Modal    bool
	Selected string
	// Dispatched is set once a command, possibly blank, was dispatched.
	Dispatched bool
	// Reason is meaningful once Open is false.
	Reason menu.CloseReason
	Origin image.Point
	Size   int
}
