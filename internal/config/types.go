// Package config provides the settings model of the radial menu.
// It defines the ring geometry, theme colors, category names and the
// per-layer entry tables, together with loading, saving, validation and
// the command import/export format.
package config

import (
	"fmt"
	"image/color"

	"github.com/opd-ai/go-radial/internal/geometry"
)

// MenuEntry binds a display name to an opaque command token.
type MenuEntry struct {
	// Name is the text drawn in the sector.
	Name string
	// Command is the token handed to the dispatch sink.
	Command string
}

// IsEmpty reports whether both fields are blank. Empty entries draw no text
// and never dispatch; any other entry dispatches its command, even a blank
// one.
func (e MenuEntry) IsEmpty() bool {
	return e.Name == "" && e.Command == ""
}

// RingSettings holds the geometry of the rings in pixels.
type RingSettings struct {
	// LayerCount is the number of layer rings (1 to 3).
	LayerCount int
	// InnerRadius is the hub radius.
	InnerRadius int
	// CategoryRingWidth is the radial width of the category ring.
	CategoryRingWidth int
	// LayerWidth is the radial width of each layer ring.
	LayerWidth int
	// Margin is the padding added around the outer ring.
	Margin int
}

// ThemeSettings holds the configurable colors.
type ThemeSettings struct {
	// Background is the idle sector fill.
	Background color.RGBA
	// Hover is the hovered sector fill and the hub accent.
	Hover color.RGBA
	// Center is the hub fill.
	Center color.RGBA
	// FontSize is the entry label size in points.
	FontSize float64
	// Logo is an optional image path drawn in the hub. It may reference
	// environment variables; see LogoPath.
	Logo string
	// Font is an optional TTF/OTF file used for labels instead of the
	// embedded Go fonts, e.g. for CJK category names.
	Font string
}

// Settings is the complete configuration snapshot read by a menu at open time.
type Settings struct {
	Ring  RingSettings
	Theme ThemeSettings
	// Categories holds the 8 category display names.
	Categories []string
	// Layers holds the entry tables for layers 1..3 in category-major order:
	// entry i of category c in layer l is Layers[l-1][c*(l+1)+i].
	Layers [geometry.MaxLayers][]MenuEntry
}

// RingConfig converts the ring settings into layout geometry.
func (s *Settings) RingConfig() geometry.RingConfig {
	return geometry.RingConfig{
		InnerRadius:       float64(s.Ring.InnerRadius),
		CategoryRingWidth: float64(s.Ring.CategoryRingWidth),
		LayerWidth:        float64(s.Ring.LayerWidth),
		LayerCount:        s.Ring.LayerCount,
	}
}

// WindowSize is the side of the square overlay: the outer ring diameter plus
// the margin for anti-aliased edges.
func (s *Settings) WindowSize() int {
	outer := s.Ring.InnerRadius + s.Ring.CategoryRingWidth + s.Ring.LayerWidth*s.Ring.LayerCount
	return outer*2 + s.Ring.Margin
}

// CategoryName returns the name of category c, or "" when out of range.
func (s *Settings) CategoryName(c int) string {
	if c < 0 || c >= len(s.Categories) {
		return ""
	}
	return s.Categories[c]
}

// SetCategoryName renames category c. Out of range indices are ignored.
func (s *Settings) SetCategoryName(c int, name string) {
	if c < 0 || c >= geometry.CategoryCount {
		return
	}
	s.EnsureTables()
	s.Categories[c] = name
}

func entryOffset(l, c, i int) (int, bool) {
	if l < 1 || l > geometry.MaxLayers || c < 0 || c >= geometry.CategoryCount {
		return 0, false
	}
	n := geometry.EntriesPerCategory(l)
	if i < 0 || i >= n {
		return 0, false
	}
	return c*n + i, true
}

// Item returns entry i of category c in layer l. Invalid coordinates and
// missing rows yield an empty entry.
func (s *Settings) Item(l, c, i int) MenuEntry {
	off, ok := entryOffset(l, c, i)
	if !ok || off >= len(s.Layers[l-1]) {
		return MenuEntry{}
	}
	return s.Layers[l-1][off]
}

// SetItem replaces entry i of category c in layer l. Invalid coordinates are
// ignored.
func (s *Settings) SetItem(l, c, i int, e MenuEntry) {
	off, ok := entryOffset(l, c, i)
	if !ok {
		return
	}
	s.EnsureTables()
	s.Layers[l-1][off] = e
}

// ItemAt returns the entry for a layout target. Non-entry targets yield an
// empty entry.
func (s *Settings) ItemAt(t geometry.Target) MenuEntry {
	if !t.IsEntry() {
		return MenuEntry{}
	}
	return s.Item(t.Layer, t.Category, t.Index)
}

// CommandFor returns the token to dispatch for t. ok is false when t is not
// an entry or the entry is empty.
func (s *Settings) CommandFor(t geometry.Target) (token string, ok bool) {
	e := s.ItemAt(t)
	if e.IsEmpty() {
		return "", false
	}
	return e.Command, true
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	out := *s
	out.Categories = append([]string(nil), s.Categories...)
	for l := range s.Layers {
		out.Layers[l] = append([]MenuEntry(nil), s.Layers[l]...)
	}
	return &out
}

// String summarises the settings for logs.
func (s *Settings) String() string {
	return fmt.Sprintf("layers=%d inner=%d category=%d layer=%d margin=%d",
		s.Ring.LayerCount, s.Ring.InnerRadius, s.Ring.CategoryRingWidth, s.Ring.LayerWidth, s.Ring.Margin)
}

// CommandSet is the portable subset of Settings used by import and export:
// category names and entry tables, never geometry or theme. A nil slice means
// the file did not provide that table.
type CommandSet struct {
	Categories []string
	Layers     [geometry.MaxLayers][]MenuEntry
}

// Commands extracts the portable command set.
func (s *Settings) Commands() CommandSet {
	c := s.Clone()
	return CommandSet{Categories: c.Categories, Layers: c.Layers}
}

// ApplyCommands replaces every table that is present and non-empty in cs and
// then repairs table lengths. Tables absent from cs are left untouched.
func (s *Settings) ApplyCommands(cs CommandSet) *ValidationResult {
	if len(cs.Categories) > 0 {
		s.Categories = append([]string(nil), cs.Categories...)
	}
	for l := range cs.Layers {
		if len(cs.Layers[l]) > 0 {
			s.Layers[l] = append([]MenuEntry(nil), cs.Layers[l]...)
		}
	}
	return s.EnsureTables()
}
