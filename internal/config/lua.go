package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-radial/internal/geometry"
)

// maxTableRows stops array scans of absurdly long tables.
const maxTableRows = 4096

// ErrNoRadialTable is returned when a file never defines the radial table.
var ErrNoRadialTable = errors.New("radial table is not defined")

// LuaParser executes settings and command files in a sandboxed Lua runtime
// and extracts the radial.settings, radial.categories and radial.layers
// tables.
type LuaParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaParser creates a LuaParser whose print output is discarded.
func NewLuaParser() (*LuaParser, error) {
	return NewLuaParserWithOutput(io.Discard)
}

// NewLuaParserWithOutput creates a LuaParser with custom print output.
func NewLuaParserWithOutput(stdout io.Writer) (*LuaParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}
	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)
	return &LuaParser{runtime: runtime, cleanup: cleanup}, nil
}

// ParseSettings runs a settings file. Geometry and theme keys that are absent
// keep their defaults; tables that are absent stay nil so that the caller can
// decide how to fill them.
func (p *LuaParser) ParseSettings(content []byte) (*Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	radial, err := p.exec("settings", content)
	if err != nil {
		return nil, err
	}

	s := &Settings{Ring: DefaultRingSettings(), Theme: DefaultThemeSettings()}
	if t, ok := radial.Get(rt.StringValue("settings")).TryTable(); ok {
		if err := extractSettingsTable(s, t); err != nil {
			return nil, err
		}
	}
	cs, err := extractCommands(radial)
	if err != nil {
		return nil, err
	}
	s.Categories = cs.Categories
	s.Layers = cs.Layers
	return s, nil
}

// ParseCommands runs a command export file. Only category names and layer
// tables are read; a settings table, if present, is ignored.
func (p *LuaParser) ParseCommands(content []byte) (CommandSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	radial, err := p.exec("commands", content)
	if err != nil {
		return CommandSet{}, err
	}
	return extractCommands(radial)
}

// exec compiles and runs content with resource limits and returns the
// radial global table.
func (p *LuaParser) exec(name string, content []byte) (*rt.Table, error) {
	if p.cleanup == nil {
		return nil, fmt.Errorf("parser is closed")
	}

	// Each run starts from a fresh radial table so that files never inherit
	// values from the previous one.
	radial := rt.NewTable()
	p.runtime.GlobalEnv().Set(rt.StringValue("radial"), rt.TableValue(radial))

	closure, err := p.runtime.CompileAndLoadLuaChunk(name, content, rt.TableValue(p.runtime.GlobalEnv()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua %s: %w", name, err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    10_000_000,
			Memory: 50 * 1024 * 1024, // 50 MB
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	if err := call(p.runtime, closure); err != nil {
		return nil, fmt.Errorf("failed to execute Lua %s: %w", name, err)
	}

	// The script may have replaced the table entirely.
	t, ok := p.runtime.GlobalEnv().Get(rt.StringValue("radial")).TryTable()
	if !ok {
		return nil, ErrNoRadialTable
	}
	return t, nil
}

// call runs closure on the main thread. The runtime panics when a hard
// limit is exceeded; that is reported as an error.
func call(r *rt.Runtime, closure *rt.Closure) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("resource limit exceeded: %v", rec)
		}
	}()
	_, err = rt.Call1(r.MainThread(), rt.FunctionValue(closure))
	return err
}

func extractSettingsTable(s *Settings, t *rt.Table) error {
	ints := []struct {
		key    string
		target *int
	}{
		{"layer_count", &s.Ring.LayerCount},
		{"inner_radius", &s.Ring.InnerRadius},
		{"category_ring_width", &s.Ring.CategoryRingWidth},
		{"layer_width", &s.Ring.LayerWidth},
		{"margin", &s.Ring.Margin},
	}
	for _, f := range ints {
		if v := getTableInt(t, f.key); v != nil {
			*f.target = *v
		}
	}

	if v := getTableFloat(t, "font_size"); v != nil {
		s.Theme.FontSize = *v
	}
	if v := getTableString(t, "logo"); v != nil {
		s.Theme.Logo = *v
	}
	if v := getTableString(t, "font"); v != nil {
		s.Theme.Font = *v
	}

	colors := []struct {
		key    string
		target *color.RGBA
	}{
		{"background_color", &s.Theme.Background},
		{"hover_color", &s.Theme.Hover},
		{"center_color", &s.Theme.Center},
	}
	for _, cf := range colors {
		if v := getTableString(t, cf.key); v != nil {
			c, err := ParseColor(*v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", cf.key, err)
			}
			*cf.target = c
		}
	}
	return nil
}

func extractCommands(radial *rt.Table) (CommandSet, error) {
	var cs CommandSet

	if t, ok := radial.Get(rt.StringValue("categories")).TryTable(); ok {
		cs.Categories = []string{}
		for i, v := range arrayValues(t) {
			name, ok := v.TryString()
			if !ok {
				return CommandSet{}, fmt.Errorf("categories[%d]: expected a string", i+1)
			}
			cs.Categories = append(cs.Categories, name)
		}
	}

	layers, ok := radial.Get(rt.StringValue("layers")).TryTable()
	if !ok {
		return cs, nil
	}
	for l := 1; l <= geometry.MaxLayers; l++ {
		lt, ok := layers.Get(rt.IntValue(int64(l))).TryTable()
		if !ok {
			continue
		}
		entries := []MenuEntry{}
		for i, v := range arrayValues(lt) {
			e, err := parseEntry(v)
			if err != nil {
				return CommandSet{}, fmt.Errorf("layers[%d][%d]: %w", l, i+1, err)
			}
			entries = append(entries, e)
		}
		cs.Layers[l-1] = entries
	}
	return cs, nil
}

// parseEntry accepts {name = "...", command = "..."} or the positional form
// {"name", "command"}.
func parseEntry(v rt.Value) (MenuEntry, error) {
	t, ok := v.TryTable()
	if !ok {
		return MenuEntry{}, fmt.Errorf("expected a table")
	}
	var e MenuEntry
	if s := getTableString(t, "name"); s != nil {
		e.Name = *s
	} else if s, ok := t.Get(rt.IntValue(1)).TryString(); ok {
		e.Name = s
	}
	if s := getTableString(t, "command"); s != nil {
		e.Command = *s
	} else if s, ok := t.Get(rt.IntValue(2)).TryString(); ok {
		e.Command = s
	}
	return e, nil
}

// arrayValues returns t[1], t[2], ... up to the first nil.
func arrayValues(t *rt.Table) []rt.Value {
	var out []rt.Value
	for i := int64(1); i <= maxTableRows; i++ {
		v := t.Get(rt.IntValue(i))
		if v == rt.NilValue {
			break
		}
		out = append(out, v)
	}
	return out
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if s, ok := val.TryString(); ok {
		return &s
	}
	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}

// getTableInt retrieves an int value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}
