package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ErrImport wraps every failure of Store.Import.
var ErrImport = errors.New("import failed")

// Settings file naming.
const (
	// AppDirName is the directory under the user config dir.
	AppDirName = "radial-menu"
	// SettingsFileName is the settings file inside AppDirName.
	SettingsFileName = "settings.lua"
	// EnvFileName is the optional dotenv file next to the settings.
	EnvFileName = ".env"
)

// DefaultPath returns the settings location under the user config
// directory, e.g. ~/.config/radial-menu/settings.lua.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, AppDirName, SettingsFileName), nil
}

// ResolvePath picks the settings path: an explicit path wins, then
// RADIAL_MENU_CONFIG, then DefaultPath. A path that cannot be resolved at all
// falls back to a file in the working directory.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return ExpandEnv(env)
	}
	if p, err := DefaultPath(); err == nil {
		return p
	}
	return SettingsFileName
}

// LoadDotEnv loads KEY=VALUE pairs from the given dotenv files into the
// process environment. Missing files are skipped and variables that are
// already set are not overridden.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadResult describes the outcome of Store.Load.
type LoadResult struct {
	// Settings is always a complete, repaired snapshot.
	Settings *Settings
	// FromDefaults is true when the built-in defaults were substituted.
	FromDefaults bool
	// Err is the reason the defaults were substituted, if any.
	Err error
	// Validation records repairs made to a file that did load.
	Validation *ValidationResult
}

// Store reads and writes the settings file and performs command import and
// export.
type Store struct {
	path   string
	writer *Writer
}

// NewStore creates a Store for the settings file at path.
func NewStore(path string) *Store {
	return &Store{path: path, writer: NewWriter()}
}

// Path returns the settings file location.
func (st *Store) Path() string {
	return st.path
}

// Load reads the settings file. It never fails: a missing, unreadable or
// malformed file yields the built-in defaults and the cause in Err.
func (st *Store) Load() LoadResult {
	s, err := st.read()
	if err != nil {
		return LoadResult{Settings: DefaultSettings(), FromDefaults: true, Err: err, Validation: &ValidationResult{}}
	}
	s.fillMissingDefaults()
	return LoadResult{Settings: s, Validation: Normalize(s)}
}

func (st *Store) read() (*Settings, error) {
	content, err := os.ReadFile(st.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", st.path, err)
	}
	p, err := NewLuaParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}
	defer p.Close()

	s, err := p.ParseSettings(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", st.path, err)
	}
	return s, nil
}

// Save writes s to the settings file, creating its directory when needed.
// Tables are repaired first.
func (st *Store) Save(s *Settings) error {
	s.EnsureTables()
	content, err := st.writer.WriteSettings(s)
	if err != nil {
		return err
	}
	return writeFileAtomic(st.path, content)
}

// Export writes the category names and entry tables of s to path.
func (st *Store) Export(s *Settings, path string) error {
	c := s.Clone()
	c.EnsureTables()
	if err := writeFileAtomic(path, st.writer.WriteCommands(c.Commands())); err != nil {
		return fmt.Errorf("failed to export commands: %w", err)
	}
	return nil
}

// Import replaces the tables of s with the non-empty tables found in the
// command file at path, then repairs table lengths. On any failure s is left
// unmodified and the error wraps ErrImport.
func (st *Store) Import(s *Settings, path string) (*ValidationResult, error) {
	cs, err := st.ReadCommands(path)
	if err != nil {
		return nil, err
	}
	next := s.Clone()
	result := next.ApplyCommands(cs)
	*s = *next
	return result, nil
}

// ReadCommands parses the command file at path. A file without any table is
// an error. Errors wrap ErrImport.
func (st *Store) ReadCommands(path string) (CommandSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return CommandSet{}, fmt.Errorf("%w: %w", ErrImport, err)
	}
	p, err := NewLuaParser()
	if err != nil {
		return CommandSet{}, fmt.Errorf("%w: %w", ErrImport, err)
	}
	defer p.Close()

	cs, err := p.ParseCommands(content)
	if err != nil {
		return CommandSet{}, fmt.Errorf("%w: %w", ErrImport, err)
	}
	if cs.empty() {
		return CommandSet{}, fmt.Errorf("%w: %s contains no command tables", ErrImport, path)
	}
	return cs, nil
}

func (cs CommandSet) empty() bool {
	if len(cs.Categories) > 0 {
		return false
	}
	for _, l := range cs.Layers {
		if len(l) > 0 {
			return false
		}
	}
	return true
}

// writeFileAtomic writes through a temporary file in the same directory and
// renames it over path, so a crash never leaves a truncated file.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".radial-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// IsNotExist reports whether a Load error means the file was simply absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
