package config

import (
	"image/color"
	"time"
)

// Default values for configuration options.
const (
	// DefaultLayerCount is the number of layer rings on first start.
	DefaultLayerCount = 2
	// DefaultInnerRadius is the hub radius in pixels.
	DefaultInnerRadius = 45
	// DefaultCategoryRingWidth is the category ring width in pixels.
	DefaultCategoryRingWidth = 45
	// DefaultLayerWidth is the width of each layer ring in pixels.
	DefaultLayerWidth = 50
	// DefaultMargin is the padding around the outer ring in pixels.
	DefaultMargin = 60
	// DefaultFontSize is the entry label size in points.
	DefaultFontSize = 11.0
)

// Default interaction timings. They are not persisted.
const (
	DefaultDebounce            = 350 * time.Millisecond
	DefaultEntryDoubleClick    = 350 * time.Millisecond
	DefaultCategoryDoubleClick = 400 * time.Millisecond
	DefaultHubDoubleClick      = 400 * time.Millisecond
)

// Default colors.
var (
	// DefaultBackground is the idle sector fill.
	DefaultBackground = color.RGBA{R: 30, G: 34, B: 42, A: 140}
	// DefaultHover is the hovered sector fill.
	DefaultHover = color.RGBA{R: 74, G: 144, B: 217, A: 180}
	// DefaultCenter is the hub fill.
	DefaultCenter = color.RGBA{R: 20, G: 24, B: 32, A: 200}
)

// DefaultCategories returns the built-in category names.
func DefaultCategories() []string {
	return []string{"Transform", "Rotate", "Scale", "Curve", "Surface", "Solid", "Edit", "Combine"}
}

func entry(name, cmd string) MenuEntry { return MenuEntry{Name: name, Command: cmd} }

// DefaultLayer returns the built-in entry table for layer l (1..3), or nil
// for other layers.
func DefaultLayer(l int) []MenuEntry {
	switch l {
	case 1:
		return []MenuEntry{
			entry("Move", "_Move"), entry("Copy", "_Copy"),
			entry("Rotate", "_Rotate"), entry("Rotate 3D", "_Rotate3D"),
			entry("Scale", "_Scale"), entry("Scale 1D", "_Scale1D"),
			entry("Line", "_Line"), entry("Polyline", "_Polyline"),
			entry("Extrude", "_ExtrudeCrv"), entry("Loft", "_Loft"),
			entry("Box", "_Box"), entry("Sphere", "_Sphere"),
			entry("Trim", "_Trim"), entry("Split", "_Split"),
			entry("Group", "_Group"), entry("Join", "_Join"),
		}
	case 2:
		return []MenuEntry{
			entry("Array", "_Array"), entry("Mirror", "_Mirror"), entry("Orient", "_Orient"),
			entry("Twist", "_Twist"), entry("Bend", "_Bend"), entry("Flow", "_Flow"),
			entry("Scale 2D", "_Scale2D"), entry("Stretch", "_Stretch"), entry("Taper", "_Taper"),
			entry("Arc", "_Arc"), entry("Circle", "_Circle"), entry("Rectangle", "_Rectangle"),
			entry("Sweep 1", "_Sweep1"), entry("Sweep 2", "_Sweep2"), entry("Revolve", "_Revolve"),
			entry("Cylinder", "_Cylinder"), entry("Cone", "_Cone"), entry("Torus", "_Torus"),
			entry("Extend", "_Extend"), entry("Offset", "_Offset"), entry("Fillet", "_Fillet"),
			entry("Union", "_BooleanUnion"), entry("Difference", "_BooleanDifference"), entry("Intersection", "_BooleanIntersection"),
		}
	case 3:
		return []MenuEntry{
			entry("Array Curve", "_ArrayCrv"), entry("Polar Array", "_ArrayPolar"), entry("Align", "_Align"), entry("Distribute", "_Distribute"),
			entry("Flow Along", "_FlowAlongSrf"), entry("Cage Edit", "_CageEdit"), entry("Project", "_Project"), entry("Pull", "_Pull"),
			entry("Scale By Plane", "_ScaleByPlane"), entry("Shear", "_Shear"), entry("Squish", "_Squish"), entry("Unroll", "_UnrollSrf"),
			entry("Ellipse", "_Ellipse"), entry("Helix", "_Helix"), entry("Parabola", "_Parabola"), entry("Interp Curve", "_InterpCrv"),
			entry("Patch", "_Patch"), entry("Network", "_NetworkSrf"), entry("Edge Surface", "_EdgeSrf"), entry("Planar", "_PlanarSrf"),
			entry("Pipe", "_Pipe"), entry("Pyramid", "_Pyramid"), entry("Ellipsoid", "_Ellipsoid"), entry("Paraboloid", "_Paraboloid"),
			entry("Explode", "_Explode"), entry("Rebuild", "_Rebuild"), entry("Match", "_Match"), entry("Blend Curve", "_BlendCrv"),
			entry("Boolean Split", "_BooleanSplit"), entry("Merge", "_Merge"), entry("Connect", "_Connect"), entry("Bridge", "_Bridge"),
		}
	default:
		return nil
	}
}

// DefaultRingSettings returns the built-in geometry.
func DefaultRingSettings() RingSettings {
	return RingSettings{
		LayerCount:        DefaultLayerCount,
		InnerRadius:       DefaultInnerRadius,
		CategoryRingWidth: DefaultCategoryRingWidth,
		LayerWidth:        DefaultLayerWidth,
		Margin:            DefaultMargin,
	}
}

// DefaultThemeSettings returns the built-in colors.
func DefaultThemeSettings() ThemeSettings {
	return ThemeSettings{
		Background: DefaultBackground,
		Hover:      DefaultHover,
		Center:     DefaultCenter,
		FontSize:   DefaultFontSize,
	}
}

// DefaultSettings returns a complete built-in configuration. It is what every
// load failure falls back to.
func DefaultSettings() *Settings {
	s := &Settings{
		Ring:       DefaultRingSettings(),
		Theme:      DefaultThemeSettings(),
		Categories: DefaultCategories(),
	}
	for l := 1; l <= len(s.Layers); l++ {
		s.Layers[l-1] = DefaultLayer(l)
	}
	return s
}

// fillMissingDefaults substitutes the built-in table for every table that is
// absent or empty.
func (s *Settings) fillMissingDefaults() {
	if len(s.Categories) == 0 {
		s.Categories = DefaultCategories()
	}
	for l := range s.Layers {
		if len(s.Layers[l]) == 0 {
			s.Layers[l] = DefaultLayer(l + 1)
		}
	}
}
