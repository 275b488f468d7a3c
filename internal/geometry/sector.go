package geometry

import "math"

// Sector is an annular wedge bounded by two arcs and two radial edges.
// Start and Sweep are screen angles in degrees.
type Sector struct {
	Center Point
	Inner  float64
	Outer  float64
	Start  float64
	Sweep  float64
}

// SectorBounds builds the region between innerR and outerR starting at
// startAngle and spanning sweepAngle clockwise.
func SectorBounds(center Point, innerR, outerR, startAngle, sweepAngle float64) Sector {
	return Sector{Center: center, Inner: innerR, Outer: outerR, Start: startAngle, Sweep: sweepAngle}
}

// CategorySector returns the category ring sector for category c.
func CategorySector(center Point, rc RingConfig, c int) Sector {
	start := FirstCategoryStart + float64(c)*CategorySweep
	return SectorBounds(center, rc.InnerRadius, rc.CategoryRadius(), start, CategorySweep)
}

// EntrySector returns the sector of entry i of category c in layer l.
func EntrySector(center Point, rc RingConfig, c, l, i int) Sector {
	sub := SubSweep(l)
	start := FirstCategoryStart + float64(c)*CategorySweep + float64(i)*sub
	inner, outer := rc.LayerBand(l)
	return SectorBounds(center, inner, outer, start, sub)
}

// SectorFor returns the angular extent of a category or entry target. The
// hub and none targets have no sector.
func SectorFor(center Point, rc RingConfig, t Target) (Sector, bool) {
	switch {
	case t.IsCategory() && t.Category < CategoryCount:
		return CategorySector(center, rc, t.Category), true
	case t.IsEntry() && t.Layer <= rc.LayerCount && t.Index < EntriesPerCategory(t.Layer) && t.Category < CategoryCount:
		return EntrySector(center, rc, t.Category, t.Layer, t.Index), true
	default:
		return Sector{}, false
	}
}

// MidAngle is the screen angle halfway through the sector.
func (s Sector) MidAngle() float64 {
	return s.Start + s.Sweep/2
}

// MidRadius is the radius halfway between the two arcs.
func (s Sector) MidRadius() float64 {
	return (s.Inner + s.Outer) / 2
}

// Mid is the mid-angle, mid-radius point used for labels.
func (s Sector) Mid() Point {
	return Polar(s.Center, s.MidRadius(), s.MidAngle())
}

// Contains reports whether p lies in the sector using the same half-open
// angle rule and (inner, outer] radial rule as HitTest.
func (s Sector) Contains(p Point) bool {
	d := p.Sub(s.Center)
	dist := d.Len()
	if dist <= s.Inner || dist > s.Outer {
		return false
	}
	a := math.Atan2(d.Y, d.X) * 180 / math.Pi
	return normalize(a-s.Start) < s.Sweep
}

// Outline returns the closed boundary as a polygon: the outer arc from Start
// to Start+Sweep followed by the inner arc back. Each arc is split into
// enough segments that no segment spans more than maxStep degrees.
func (s Sector) Outline(maxStep float64) []Point {
	if maxStep <= 0 {
		maxStep = 2
	}
	n := int(math.Ceil(s.Sweep / maxStep))
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		pts = append(pts, Polar(s.Center, s.Outer, s.Start+s.Sweep*float64(i)/float64(n)))
	}
	for i := n; i >= 0; i-- {
		pts = append(pts, Polar(s.Center, s.Inner, s.Start+s.Sweep*float64(i)/float64(n)))
	}
	return pts
}
