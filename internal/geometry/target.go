package geometry

import "fmt"

// TargetKind distinguishes the regions a point can resolve to.
type TargetKind int

const (
	// KindNone is outside every ring.
	KindNone TargetKind = iota
	// KindHub is the center hub.
	KindHub
	// KindCategory is a sector of the category ring.
	KindCategory
	// KindEntry is a leaf entry in a layer ring.
	KindEntry
)

// String returns a human-readable name for the kind.
func (k TargetKind) String() string {
	switch k {
	case KindHub:
		return "hub"
	case KindCategory:
		return "category"
	case KindEntry:
		return "entry"
	default:
		return "none"
	}
}

// Target identifies what lies under the pointer.
//
// Layer 0 is the category ring (Index is -1). Layers 1..LayerCount are entry
// rings. The hub and "nothing" both use (-1, -1, -1) and differ only by Kind.
type Target struct {
	Kind     TargetKind
	Category int
	Layer    int
	Index    int
}

// Sentinel targets.
var (
	None = Target{Kind: KindNone, Category: -1, Layer: -1, Index: -1}
	Hub  = Target{Kind: KindHub, Category: -1, Layer: -1, Index: -1}
)

// CategoryTarget returns the target for category c on the category ring.
func CategoryTarget(c int) Target {
	return Target{Kind: KindCategory, Category: c, Layer: 0, Index: -1}
}

// EntryTarget returns the target for entry (c, l, i).
func EntryTarget(c, l, i int) Target {
	return Target{Kind: KindEntry, Category: c, Layer: l, Index: i}
}

// IsEntry reports whether t is a leaf entry.
func (t Target) IsEntry() bool {
	return t.Kind == KindEntry && t.Category >= 0 && t.Layer >= 1 && t.Index >= 0
}

// IsCategory reports whether t is a sector of the category ring.
func (t Target) IsCategory() bool {
	return t.Kind == KindCategory && t.Category >= 0
}

// String formats the target for logs.
func (t Target) String() string {
	switch t.Kind {
	case KindCategory:
		return fmt.Sprintf("category(%d)", t.Category)
	case KindEntry:
		return fmt.Sprintf("entry(%d,%d,%d)", t.Category, t.Layer, t.Index)
	default:
		return t.Kind.String()
	}
}

// HitTest resolves a window point to the target under it. center is the menu
// center in the same coordinate space. Ring bands are (inner, outer]; the hub
// includes its boundary.
func HitTest(p, center Point, rc RingConfig) Target {
	d := p.Sub(center)
	dist := d.Len()

	if dist <= rc.InnerRadius {
		return Hub
	}
	if dist > rc.OuterRadius() {
		return None
	}

	norm := NormalizedAngle(d)
	category := CategoryAt(norm)

	if dist <= rc.CategoryRadius() {
		return CategoryTarget(category)
	}

	for l := 1; l <= rc.LayerCount; l++ {
		inner, outer := rc.LayerBand(l)
		if dist > inner && dist <= outer {
			return EntryTarget(category, l, IndexAt(norm, l))
		}
	}
	return None
}
