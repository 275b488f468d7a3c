//go:build linux

package overlay

import (
	"fmt"
	"image"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Display is a connection to the X server used for the pointer query, the
// overlay window state and compositor detection.
type Display struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// Connect opens the display named by $DISPLAY.
func Connect() (*Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDisplay, err)
	}
	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("%w: no screens", ErrNoDisplay)
	}
	return &Display{
		conn:  conn,
		root:  setup.Roots[0].Root,
		atoms: make(map[string]xproto.Atom),
	}, nil
}

// Pointer returns the global cursor position on the first screen.
func (d *Display) Pointer() (image.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	reply, err := xproto.QueryPointer(d.conn, d.root).Reply()
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to query pointer: %w", err)
	}
	return image.Pt(int(reply.RootX), int(reply.RootY)), nil
}

// ApplyHints adds the requested _NET_WM_STATE flags to the active window,
// which is the overlay right after it maps.
func (d *Display) ApplyHints(h Hints) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var names []string
	if h.SkipTaskbar {
		names = append(names, "_NET_WM_STATE_SKIP_TASKBAR")
	}
	if h.SkipPager {
		names = append(names, "_NET_WM_STATE_SKIP_PAGER")
	}
	if h.Above {
		names = append(names, "_NET_WM_STATE_ABOVE")
	}
	if len(names) == 0 {
		return nil
	}

	window, err := d.activeWindow()
	if err != nil {
		return err
	}
	if window == xproto.WindowNone {
		return nil
	}

	add := make([]xproto.Atom, 0, len(names))
	for _, name := range names {
		a, err := d.atom(name)
		if err != nil {
			return err
		}
		add = append(add, a)
	}
	state, err := d.atom("_NET_WM_STATE")
	if err != nil {
		return err
	}
	current, err := d.windowState(window, state)
	if err != nil {
		current = nil
	}
	merged := mergeAtoms(current, add)
	return xproto.ChangePropertyChecked(d.conn, xproto.PropModeReplace, window,
		state, xproto.AtomAtom, 32, uint32(len(merged)), encodeAtoms(merged)).Check()
}

// Compositor reports whether a compositing manager owns _NET_WM_CM_S0.
func (d *Display) Compositor() CompositorStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel, err := d.atom("_NET_WM_CM_S0")
	if err != nil {
		return CompositorUnknown
	}
	owner, err := xproto.GetSelectionOwner(d.conn, sel).Reply()
	if err != nil {
		return CompositorUnknown
	}
	return statusFromOwner(owner.Owner)
}

// Close releases the connection.
func (d *Display) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
}

func (d *Display) atom(name string) (xproto.Atom, error) {
	if a, ok := d.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(d.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	d.atoms[name] = reply.Atom
	return reply.Atom, nil
}

func (d *Display) activeWindow() (xproto.Window, error) {
	if active, err := d.atom("_NET_ACTIVE_WINDOW"); err == nil {
		reply, err := xproto.GetProperty(d.conn, false, d.root, active, xproto.AtomWindow, 0, 1).Reply()
		if err == nil && len(reply.Value) >= 4 {
			return xproto.Window(xgb.Get32(reply.Value)), nil
		}
	}
	focus, err := xproto.GetInputFocus(d.conn).Reply()
	if err != nil {
		return xproto.WindowNone, fmt.Errorf("failed to find the overlay window: %w", err)
	}
	return focus.Focus, nil
}

func (d *Display) windowState(w xproto.Window, state xproto.Atom) ([]xproto.Atom, error) {
	reply, err := xproto.GetProperty(d.conn, false, w, state, xproto.AtomAtom, 0, 256).Reply()
	if err != nil {
		return nil, err
	}
	return decodeAtoms(reply.Value), nil
}

func statusFromOwner(owner xproto.Window) CompositorStatus {
	if owner != xproto.WindowNone {
		return CompositorActive
	}
	return CompositorInactive
}

// mergeAtoms returns the sorted union of current and add.
func mergeAtoms(current, add []xproto.Atom) []xproto.Atom {
	set := make(map[xproto.Atom]bool, len(current)+len(add))
	for _, a := range current {
		set[a] = true
	}
	for _, a := range add {
		set[a] = true
	}
	out := make([]xproto.Atom, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func encodeAtoms(atoms []xproto.Atom) []byte {
	data := make([]byte, len(atoms)*4)
	for i, a := range atoms {
		xgb.Put32(data[i*4:], uint32(a))
	}
	return data
}

func decodeAtoms(data []byte) []xproto.Atom {
	atoms := make([]xproto.Atom, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		atoms = append(atoms, xproto.Atom(xgb.Get32(data[i:])))
	}
	return atoms
}

// knownCompositors are checked when the selection query is unavailable.
var knownCompositors = []string{
	"picom", "compton", "compiz", "mutter", "kwin", "kwin_x11",
	"xfwm4", "marco", "muffin",
}

// DetectCompositor reports whether per-pixel transparency will be honored.
// Wayland sessions always composite; on X11 the _NET_WM_CM_S0 owner is
// checked first, then the process list.
func DetectCompositor() CompositorStatus {
	if IsWayland() {
		return CompositorActive
	}
	if d, err := Connect(); err == nil {
		status := d.Compositor()
		d.Close()
		if status != CompositorUnknown {
			return status
		}
	}
	for _, name := range knownCompositors {
		if exec.Command("pgrep", "-x", name).Run() == nil {
			return CompositorActive
		}
	}
	return CompositorInactive
}

// IsWayland reports whether the session runs on Wayland.
func IsWayland() bool {
	return strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") || os.Getenv("WAYLAND_DISPLAY") != ""
}
