//go:build !linux

package overlay

import "image"

// Display is unavailable outside Linux.
type Display struct{}

// Connect always fails outside Linux.
func Connect() (*Display, error) {
	return nil, ErrNoDisplay
}

// Pointer is never reached; Connect fails.
func (d *Display) Pointer() (image.Point, error) {
	return image.Point{}, ErrNoDisplay
}

// ApplyHints does nothing.
func (d *Display) ApplyHints(Hints) error { return nil }

// Compositor returns CompositorUnknown.
func (d *Display) Compositor() CompositorStatus { return CompositorUnknown }

// Close does nothing.
func (d *Display) Close() {}

// DetectCompositor assumes the platform window system composites.
func DetectCompositor() CompositorStatus {
	return CompositorActive
}

// IsWayland returns false.
func IsWayland() bool {
	return false
}
