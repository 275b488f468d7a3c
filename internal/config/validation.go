package config

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-radial/internal/geometry"
)

// ValidationError is a single problem found in a setting.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult collects errors and warnings.
type ValidationResult struct {
	// Errors are problems that make a section unusable.
	Errors []ValidationError
	// Warnings are problems that were repaired or are merely suspicious.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Limits used by the validator.
const (
	// maxRadius flags radii that would produce an overlay larger than most screens.
	maxRadius = 1000
	// minFontSize and maxFontSize bound the label size in points.
	minFontSize = 4.0
	maxFontSize = 72.0
)

// Validator checks Settings values.
type Validator struct {
	// strictMode turns warnings about suspicious values into errors.
	strictMode bool
}

// NewValidator creates a Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode makes suspicious values errors instead of warnings.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate checks geometry and theme. Table lengths are not checked here;
// EnsureTables repairs them.
func (v *Validator) Validate(s *Settings) *ValidationResult {
	result := &ValidationResult{}
	v.validateRing(&s.Ring, result)
	v.validateTheme(&s.Theme, result)
	return result
}

func (v *Validator) suspicious(result *ValidationResult, field, message string) {
	if v.strictMode {
		result.AddError(field, message)
		return
	}
	result.AddWarning(field, message)
}

func (v *Validator) validateRing(r *RingSettings, result *ValidationResult) {
	if r.LayerCount < 1 || r.LayerCount > geometry.MaxLayers {
		result.AddError("ring.layer_count", fmt.Sprintf("must be between 1 and %d, got %d", geometry.MaxLayers, r.LayerCount))
	}
	radii := []struct {
		field string
		value int
	}{
		{"ring.inner_radius", r.InnerRadius},
		{"ring.category_ring_width", r.CategoryRingWidth},
		{"ring.layer_width", r.LayerWidth},
	}
	for _, rr := range radii {
		if rr.value <= 0 {
			result.AddError(rr.field, fmt.Sprintf("must be positive, got %d", rr.value))
		} else if rr.value > maxRadius {
			v.suspicious(result, rr.field, fmt.Sprintf("unusually large value %d", rr.value))
		}
	}
	if r.Margin < 0 {
		result.AddError("ring.margin", fmt.Sprintf("must be non-negative, got %d", r.Margin))
	}
}

func (v *Validator) validateTheme(t *ThemeSettings, result *ValidationResult) {
	if t.FontSize < minFontSize || t.FontSize > maxFontSize {
		result.AddError("theme.font_size", fmt.Sprintf("must be between %.0f and %.0f, got %g", minFontSize, maxFontSize, t.FontSize))
	}
	if t.Background.A == 0 {
		v.suspicious(result, "theme.background_color", "fully transparent sectors are invisible")
	}
	if t.Hover.A == 0 {
		v.suspicious(result, "theme.hover_color", "fully transparent hover highlight is invisible")
	}
}

// EnsureTables repairs table lengths: 8 category names and 16/24/32 entries
// for layers 1/2/3. Short tables are padded with empty values; long tables
// are cut to the exact length and a warning is recorded. Calling it again is
// a no-op.
func (s *Settings) EnsureTables() *ValidationResult {
	result := &ValidationResult{}

	switch n := len(s.Categories); {
	case n < geometry.CategoryCount:
		s.Categories = append(s.Categories, make([]string, geometry.CategoryCount-n)...)
	case n > geometry.CategoryCount:
		result.AddWarning("categories", fmt.Sprintf("%d names given, keeping the first %d", n, geometry.CategoryCount))
		s.Categories = s.Categories[:geometry.CategoryCount:geometry.CategoryCount]
	}

	for l := 1; l <= geometry.MaxLayers; l++ {
		want := geometry.TableLen(l)
		table := s.Layers[l-1]
		switch n := len(table); {
		case n < want:
			s.Layers[l-1] = append(table, make([]MenuEntry, want-n)...)
		case n > want:
			result.AddWarning(fmt.Sprintf("layers[%d]", l), fmt.Sprintf("%d entries given, keeping the first %d", n, want))
			s.Layers[l-1] = table[:want:want]
		}
	}
	return result
}

// Normalize validates s and repairs it in place. An invalid ring falls back
// to the default geometry and an invalid font size to the default size, then
// tables are padded. The returned result records every problem found.
func Normalize(s *Settings) *ValidationResult {
	v := NewValidator()
	result := &ValidationResult{}

	ring := &ValidationResult{}
	v.validateRing(&s.Ring, ring)
	if !ring.IsValid() {
		s.Ring = DefaultRingSettings()
	}
	result.Merge(ring)

	theme := &ValidationResult{}
	v.validateTheme(&s.Theme, theme)
	if !theme.IsValid() {
		// Font size is the only theme value that can be invalid.
		s.Theme.FontSize = DefaultFontSize
	}
	result.Merge(theme)

	result.Merge(s.EnsureTables())
	return result
}
