package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("RADIAL_TEST_DIR", "/home/user/.config")
	t.Setenv("RADIAL_TEST_NAME", "logo.png")
	t.Setenv("RADIAL_TEST_EMPTY", "")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no variables", "/usr/share/radial/logo.png", "/usr/share/radial/logo.png"},
		{"braced", "${RADIAL_TEST_DIR}/radial", "/home/user/.config/radial"},
		{"bare", "$RADIAL_TEST_DIR/radial", "/home/user/.config/radial"},
		{"two variables", "${RADIAL_TEST_DIR}/$RADIAL_TEST_NAME", "/home/user/.config/logo.png"},
		{"unset becomes empty", "a${RADIAL_UNSET_12345}b", "ab"},
		{"unset with default", "${RADIAL_UNSET_12345:-/tmp}/x", "/tmp/x"},
		{"empty with default", "${RADIAL_TEST_EMPTY:-fallback}", "fallback"},
		{"set ignores default", "${RADIAL_TEST_NAME:-other.png}", "logo.png"},
		{"empty default", "${RADIAL_UNSET_12345:-}", ""},
		{"name cannot start with digit", "$1abc", "$1abc"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.expected {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogoPath(t *testing.T) {
	t.Setenv("RADIAL_TEST_DIR", "/opt/radial")
	s := DefaultSettings()
	s.Theme.Logo = "${RADIAL_TEST_DIR}/logo.webp"

	if got := s.Theme.LogoPath(); got != "/opt/radial/logo.webp" {
		t.Errorf("LogoPath() = %q", got)
	}
	// The stored value keeps its references so that saving round-trips it.
	if s.Theme.Logo != "${RADIAL_TEST_DIR}/logo.webp" {
		t.Errorf("Logo was modified: %q", s.Theme.Logo)
	}
}
