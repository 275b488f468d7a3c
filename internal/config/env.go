package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR}, ${VAR:-default} and $VAR references.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in s:
//   - ${VAR_NAME} is replaced with the value of VAR_NAME
//   - ${VAR_NAME:-default} falls back to default when VAR_NAME is unset or empty
//   - $VAR_NAME is the short form of ${VAR_NAME}
//
// Unset variables without a default expand to the empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") {
			inner := match[2 : len(match)-1]
			if name, def, ok := strings.Cut(inner, ":-"); ok {
				if val := os.Getenv(name); val != "" {
					return val
				}
				return def
			}
			return os.Getenv(inner)
		}
		return os.Getenv(match[1:])
	})
}

// LogoPath returns the logo path with environment references expanded.
func (t ThemeSettings) LogoPath() string {
	return ExpandEnv(t.Logo)
}

// FontPath returns the font path with environment references expanded.
func (t ThemeSettings) FontPath() string {
	return ExpandEnv(t.Font)
}

// Environment variables read by the store.
const (
	// EnvConfigPath overrides the settings file location.
	EnvConfigPath = "RADIAL_MENU_CONFIG"
)
