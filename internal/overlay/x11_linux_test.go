//go:build linux

package overlay

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestMergeAtoms(t *testing.T) {
	tests := []struct {
		name         string
		current, add []xproto.Atom
		want         []xproto.Atom
	}{
		{"empty", nil, nil, []xproto.Atom{}},
		{"add to empty", nil, []xproto.Atom{9, 3}, []xproto.Atom{3, 9}},
		{"no duplicates", []xproto.Atom{3, 5}, []xproto.Atom{5, 7}, []xproto.Atom{3, 5, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeAtoms(tt.current, tt.add); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeAtoms() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAtomEncoding(t *testing.T) {
	atoms := []xproto.Atom{1, 300, 0x01020304}
	data := encodeAtoms(atoms)
	if len(data) != 12 {
		t.Fatalf("len = %d, want 12", len(data))
	}
	// X11 property data is little endian on the wire from xgb.
	if data[8] != 0x04 || data[11] != 0x01 {
		t.Errorf("unexpected byte order: % x", data[8:])
	}
	if got := decodeAtoms(data); !reflect.DeepEqual(got, atoms) {
		t.Errorf("decodeAtoms() = %v, want %v", got, atoms)
	}
	// Trailing partial words are ignored.
	if got := decodeAtoms(append(data, 0xff)); len(got) != 3 {
		t.Errorf("decodeAtoms(partial) len = %d, want 3", len(got))
	}
}

func TestStatusFromOwner(t *testing.T) {
	if got := statusFromOwner(xproto.WindowNone); got != CompositorInactive {
		t.Errorf("no owner = %v, want inactive", got)
	}
	if got := statusFromOwner(xproto.Window(0x400001)); got != CompositorActive {
		t.Errorf("owner = %v, want active", got)
	}
}

func TestConnectWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	d, err := Connect()
	if err == nil {
		d.Close()
		t.Fatal("Connect() succeeded without DISPLAY")
	}
	if !errors.Is(err, ErrNoDisplay) {
		t.Errorf("Connect() error = %v, want ErrNoDisplay", err)
	}
}

func TestIsWayland(t *testing.T) {
	tests := []struct {
		name        string
		sessionType string
		display     string
		want        bool
	}{
		{"x11", "x11", "", false},
		{"session type", "wayland", "", true},
		{"session type case", "Wayland", "", true},
		{"wayland display", "", "wayland-0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.display)
			if got := IsWayland(); got != tt.want {
				t.Errorf("IsWayland() = %v, want %v", got, tt.want)
			}
		})
	}
}
