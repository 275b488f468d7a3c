package radial

import (
	"image"
	"image/color"

	"github.com/opd-ai/go-radial/internal/config"
)

// Presenter puts composed frames on screen. Implementations own the overlay
// window; the controller never touches the window system directly.
type Presenter interface {
	// Present shows frame with its top-left corner at origin in screen
	// coordinates. The frame is only valid until the next call.
	Present(frame *image.RGBA, origin image.Point) error
	// Origin returns the current window position, which changes when the
	// user drags the hub.
	Origin() image.Point
	// BeginDrag starts a window move gesture at the given screen position.
	BeginDrag(at image.Point)
	// Hide removes the overlay from screen.
	Hide() error
}

// Surfaces are the modal dialogs. Every method blocks until the user
// answers and returns ErrCanceled when the dialog is dismissed. They are
// called off the UI goroutine.
type Surfaces interface {
	RenameCategory(current string) (string, error)
	EditEntry(current config.MenuEntry) (config.MenuEntry, error)
	SettingsPanel(current *config.Settings) (SettingsChoice, error)
	// Notice shows a blocking message, used for failed imports.
	Notice(title, message string) error
}

// SettingsAction is the change picked in the settings panel.
type SettingsAction int

const (
	// ActionNone leaves the settings as they are.
	ActionNone SettingsAction = iota
	// ActionLayerCount sets SettingsChoice.LayerCount.
	ActionLayerCount
	// ActionColor sets one theme color.
	ActionColor
	// ActionExport writes the command tables to SettingsChoice.Path.
	ActionExport
	// ActionImport replaces the command tables from SettingsChoice.Path.
	ActionImport
	// ActionReset restores the built-in defaults.
	ActionReset
)

// String returns the action name used in logs.
func (a SettingsAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionLayerCount:
		return "layer_count"
	case ActionColor:
		return "color"
	case ActionExport:
		return "export"
	case ActionImport:
		return "import"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ColorRole names one of the configurable theme colors.
type ColorRole int

const (
	// ColorBackground is the idle sector fill.
	ColorBackground ColorRole = iota
	// ColorHover is the hover fill and hub accent.
	ColorHover
	// ColorCenter is the hub fill.
	ColorCenter
)

// String returns the settings key of the role.
func (r ColorRole) String() string {
	switch r {
	case ColorBackground:
		return "background_color"
	case ColorHover:
		return "hover_color"
	case ColorCenter:
		return "center_color"
	default:
		return "unknown"
	}
}

// SettingsChoice is the answer of the settings panel.
type SettingsChoice struct {
	Action     SettingsAction
	LayerCount int
	Role       ColorRole
	Color      color.RGBA
	Path       string
}

// setColor stores c under role in ts.
func setColor(ts *config.ThemeSettings, role ColorRole, c color.RGBA) bool {
	switch role {
	case ColorBackground:
		ts.Background = c
	case ColorHover:
		ts.Hover = c
	case ColorCenter:
		ts.Center = c
	default:
		return false
	}
	return true
}
