// Package dialog implements the menu's modal surfaces with native dialogs
// (zenity, or the platform's own dialogs on Windows and macOS).
package dialog

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/opd-ai/go-radial/internal/config"
	"github.com/opd-ai/go-radial/internal/geometry"
	"github.com/opd-ai/go-radial/pkg/radial"
)

// DefaultExportName is the file name proposed when exporting commands.
const DefaultExportName = "radial-commands.lua"

// Settings panel items.
const (
	itemLayers     = "Number of layers"
	itemBackground = "Background color"
	itemHover      = "Hover color"
	itemCenter     = "Center color"
	itemExport     = "Export commands..."
	itemImport     = "Import commands..."
	itemReset      = "Reset to defaults"
)

var panelItems = []string{
	itemLayers, itemBackground, itemHover, itemCenter, itemExport, itemImport, itemReset,
}

// Native implements radial.Surfaces.
type Native struct {
	p prompter
}

var _ radial.Surfaces = (*Native)(nil)

// New returns surfaces that close their dialogs when ctx is canceled.
func New(ctx context.Context) *Native {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Native{p: zenityPrompter{ctx: ctx}}
}

// Available reports whether native dialogs can be shown.
func Available() bool {
	return zenity.IsAvailable()
}

// RenameCategory asks for a new category name. A blank answer cancels.
func (n *Native) RenameCategory(current string) (string, error) {
	name, err := n.p.Entry("Rename category", "Category name:", current)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", radial.ErrCanceled
	}
	return name, nil
}

// EditEntry asks for the entry's display name and then its command token.
// Clearing both fields yields an empty entry.
func (n *Native) EditEntry(current config.MenuEntry) (config.MenuEntry, error) {
	name, err := n.p.Entry("Edit entry", "Display name:", current.Name)
	if err != nil {
		return config.MenuEntry{}, err
	}
	cmd, err := n.p.Entry("Edit entry", fmt.Sprintf("Command for %q:", strings.TrimSpace(name)), current.Command)
	if err != nil {
		return config.MenuEntry{}, err
	}
	return config.MenuEntry{Name: strings.TrimSpace(name), Command: strings.TrimSpace(cmd)}, nil
}

// SettingsPanel lets the user pick one change to the settings.
func (n *Native) SettingsPanel(current *config.Settings) (radial.SettingsChoice, error) {
	item, err := n.p.List("Radial menu settings", "Choose a setting to change:", panelItems)
	if err != nil {
		return radial.SettingsChoice{}, err
	}

	switch item {
	case itemLayers:
		return n.pickLayers(current.Ring.LayerCount)
	case itemBackground:
		return n.pickColor(radial.ColorBackground, current.Theme.Background)
	case itemHover:
		return n.pickColor(radial.ColorHover, current.Theme.Hover)
	case itemCenter:
		return n.pickColor(radial.ColorCenter, current.Theme.Center)
	case itemExport:
		path, err := n.p.SaveFile("Export commands", DefaultExportName)
		if err != nil {
			return radial.SettingsChoice{}, err
		}
		return radial.SettingsChoice{Action: radial.ActionExport, Path: path}, nil
	case itemImport:
		path, err := n.p.OpenFile("Import commands")
		if err != nil {
			return radial.SettingsChoice{}, err
		}
		return radial.SettingsChoice{Action: radial.ActionImport, Path: path}, nil
	case itemReset:
		if err := n.p.Confirm("Reset settings", "Restore the default commands, colors and layout?"); err != nil {
			return radial.SettingsChoice{}, err
		}
		return radial.SettingsChoice{Action: radial.ActionReset}, nil
	default:
		return radial.SettingsChoice{}, fmt.Errorf("unknown settings item %q", item)
	}
}

// Notice shows an error message and waits until it is closed.
func (n *Native) Notice(title, message string) error {
	return n.p.Error(title, message)
}

func (n *Native) pickLayers(current int) (radial.SettingsChoice, error) {
	items := make([]string, geometry.MaxLayers)
	for i := range items {
		items[i] = strconv.Itoa(i + 1)
	}
	s, err := n.p.List("Number of layers", fmt.Sprintf("Layer rings (currently %d):", current), items)
	if err != nil {
		return radial.SettingsChoice{}, err
	}
	count, err := strconv.Atoi(s)
	if err != nil {
		return radial.SettingsChoice{}, fmt.Errorf("invalid layer count %q: %w", s, err)
	}
	return radial.SettingsChoice{Action: radial.ActionLayerCount, LayerCount: count}, nil
}

func (n *Native) pickColor(role radial.ColorRole, current color.RGBA) (radial.SettingsChoice, error) {
	c, err := n.p.Color(titleCase(role), toNRGBA(current))
	if err != nil {
		return radial.SettingsChoice{}, err
	}
	return radial.SettingsChoice{Action: radial.ActionColor, Role: role, Color: pickedColor(c, current)}, nil
}

func titleCase(role radial.ColorRole) string {
	switch role {
	case radial.ColorBackground:
		return itemBackground
	case radial.ColorHover:
		return itemHover
	default:
		return itemCenter
	}
}

// toNRGBA reinterprets a settings color, which stores straight alpha, as
// color.NRGBA.
func toNRGBA(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// pickedColor converts a picker result to a settings color. Most pickers
// have no alpha channel, so an opaque result keeps the current alpha.
func pickedColor(c color.Color, current color.RGBA) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	out := color.RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
	if n.A == 0xff {
		out.A = current.A
	}
	return out
}
