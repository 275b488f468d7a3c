package radial

import (
	"image"
	"sync"
)

// Manager owns the single live menu of a process. Opening a menu while
// another is open closes the old one first.
type Manager struct {
	opts Options

	openMu  sync.Mutex // serializes Open and Close
	mu      sync.Mutex
	current *Controller
	closed  bool
}

// NewManager creates a Manager whose menus share opts. A nil Metrics is
// replaced by one instance shared by all sessions.
func NewManager(opts Options) *Manager {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	return &Manager{opts: opts}
}

// Metrics returns the metrics shared by the manager's sessions.
func (m *Manager) Metrics() *Metrics {
	return m.opts.Metrics
}

// Open closes the current menu, if any, and opens a new one centered on
// anchor.
func (m *Manager) Open(anchor image.Point) (*Controller, error) {
	m.openMu.Lock()
	defer m.openMu.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if prev != nil && prev.Status().Open {
		m.opts.Metrics.RecordSessionReplaced()
		prev.Close()
	}

	c, err := NewController(anchor, m.opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = c
	m.mu.Unlock()
	return c, nil
}

// Current returns the open menu, or nil when none is open.
func (m *Manager) Current() *Controller {
	m.mu.Lock()
	c := m.current
	m.mu.Unlock()
	if c == nil || !c.Status().Open {
		return nil
	}
	return c
}

// Dismiss closes the open menu, if any, without dispatching.
func (m *Manager) Dismiss() {
	m.openMu.Lock()
	defer m.openMu.Unlock()

	m.mu.Lock()
	c := m.current
	m.current = nil
	m.mu.Unlock()
	if c != nil {
		c.Close()
	}
}

// Close dismisses the open menu and rejects further Open calls.
func (m *Manager) Close() {
	m.Dismiss()
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}
