package overlay

import "errors"

// ErrNoDisplay is returned when no X server can be reached.
var ErrNoDisplay = errors.New("no X display available")

// Hints are _NET_WM_STATE flags for the overlay window.
type Hints struct {
	SkipTaskbar bool
	SkipPager   bool
	Above       bool
}

// OverlayHints keeps the menu off the taskbar and pager and above other
// windows.
var OverlayHints = Hints{SkipTaskbar: true, SkipPager: true, Above: true}

// CompositorStatus is the detected compositing state.
type CompositorStatus int

const (
	// CompositorUnknown means detection failed.
	CompositorUnknown CompositorStatus = iota
	// CompositorActive means per-pixel alpha will be honored.
	CompositorActive
	// CompositorInactive means the overlay will draw opaque.
	CompositorInactive
)

// String returns the status name.
func (cs CompositorStatus) String() string {
	switch cs {
	case CompositorActive:
		return "active"
	case CompositorInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// TransparencyWarning returns a message when the overlay will not be
// translucent, or "" when status is active.
func TransparencyWarning(status CompositorStatus) string {
	switch status {
	case CompositorActive:
		return ""
	case CompositorInactive:
		return "no compositor detected; the menu will be drawn on an opaque square " +
			"(start a compositor such as picom for transparency)"
	default:
		return "could not detect a compositor; the menu may be drawn on an opaque square"
	}
}
