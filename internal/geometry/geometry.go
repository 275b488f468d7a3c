// Package geometry implements the polar layout of the radial menu: the
// category ring, the nested layer rings, point to selection hit testing and
// selection to sector lookups.
//
// Angles are in degrees in screen space (y grows downward), so increasing
// angles run clockwise. Category 0 is centered straight up.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Layout constants shared by hit testing and rendering.
const (
	// CategoryCount is the number of fixed angular slots around the hub.
	CategoryCount = 8
	// CategorySweep is the angular width of one category in degrees.
	CategorySweep = 360.0 / CategoryCount
	// FirstCategoryStart is the screen angle where category 0 begins.
	FirstCategoryStart = -90.0 - CategorySweep/2
	// MaxLayers is the largest supported number of layer rings.
	MaxLayers = 3
)

// snapGrid is the coarsest angle that divides every sub-sector boundary
// (45/2, 45/3 and 45/4 are all multiples of it).
const snapGrid = 0.375

// snapTolerance bounds how far a normalized angle may sit from a boundary and
// still be treated as lying exactly on it.
const snapTolerance = 1e-9

// ErrInvalidRing is returned when a RingConfig violates its invariants.
var ErrInvalidRing = errors.New("invalid ring configuration")

// RingConfig describes the radii of the concentric rings.
type RingConfig struct {
	// InnerRadius is the radius of the hub.
	InnerRadius float64
	// CategoryRingWidth is the radial width of the category ring.
	CategoryRingWidth float64
	// LayerWidth is the radial width of each layer ring.
	LayerWidth float64
	// LayerCount is the number of layer rings (1 to 3).
	LayerCount int
}

// Validate reports whether the configuration satisfies its invariants.
func (rc RingConfig) Validate() error {
	if rc.InnerRadius <= 0 {
		return fmt.Errorf("%w: inner radius must be positive, got %v", ErrInvalidRing, rc.InnerRadius)
	}
	if rc.CategoryRingWidth <= 0 {
		return fmt.Errorf("%w: category ring width must be positive, got %v", ErrInvalidRing, rc.CategoryRingWidth)
	}
	if rc.LayerWidth <= 0 {
		return fmt.Errorf("%w: layer width must be positive, got %v", ErrInvalidRing, rc.LayerWidth)
	}
	if rc.LayerCount < 1 || rc.LayerCount > MaxLayers {
		return fmt.Errorf("%w: layer count must be in 1..%d, got %d", ErrInvalidRing, MaxLayers, rc.LayerCount)
	}
	return nil
}

// CategoryRadius is the outer radius of the category ring.
func (rc RingConfig) CategoryRadius() float64 {
	return rc.InnerRadius + rc.CategoryRingWidth
}

// OuterRadius is the outer radius of the outermost layer ring.
func (rc RingConfig) OuterRadius() float64 {
	return rc.CategoryRadius() + rc.LayerWidth*float64(rc.LayerCount)
}

// LayerBand returns the inner and outer radius of layer ring l (1-based).
func (rc RingConfig) LayerBand(l int) (inner, outer float64) {
	base := rc.CategoryRadius()
	return base + rc.LayerWidth*float64(l-1), base + rc.LayerWidth*float64(l)
}

// EntriesPerCategory is the number of sub-sectors layer l gives each category.
func EntriesPerCategory(l int) int {
	return l + 1
}

// TableLen is the total number of entries held by layer l.
func TableLen(l int) int {
	return CategoryCount * EntriesPerCategory(l)
}

// SubSweep is the angular width of one entry in layer l.
func SubSweep(l int) float64 {
	return CategorySweep / float64(EntriesPerCategory(l))
}

// Point is a position in window pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Len returns the distance of p from the origin.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Polar returns the point at the given radius and screen angle around c.
func Polar(c Point, radius, angleDeg float64) Point {
	rad := angleDeg * math.Pi / 180
	return Point{X: c.X + radius*math.Cos(rad), Y: c.Y + radius*math.Sin(rad)}
}

// NormalizedAngle converts the offset d from the menu center into the menu's
// angular frame: 0 at the start of category 0, increasing clockwise, in
// [0, 360). Values within snapTolerance of a sector boundary are snapped onto
// it so that floor division resolves boundaries consistently.
func NormalizedAngle(d Point) float64 {
	a := math.Atan2(d.Y, d.X) * 180 / math.Pi
	return normalize(a - FirstCategoryStart)
}

func normalize(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if g := math.Round(a/snapGrid) * snapGrid; math.Abs(a-g) < snapTolerance {
		a = g
	}
	if a >= 360 {
		a -= 360
	}
	return a
}

// CategoryAt maps a normalized angle to its category using half-open
// intervals [start, start+45).
func CategoryAt(norm float64) int {
	return int(math.Floor(norm/CategorySweep)) % CategoryCount
}

// IndexAt maps a normalized angle to the entry index inside its category for
// layer l, again using half-open intervals.
func IndexAt(norm float64, l int) int {
	n := EntriesPerCategory(l)
	local := norm - float64(CategoryAt(norm))*CategorySweep
	return int(math.Floor(local/SubSweep(l))) % n
}
