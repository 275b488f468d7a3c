package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/go-radial/internal/geometry"
)

// Writer renders settings and command sets in the Lua format read by
// LuaParser.
type Writer struct {
	// includeComments adds explanatory comments to the output.
	includeComments bool
}

// WriterOption is a functional option for configuring a Writer.
type WriterOption func(*Writer)

// WithComments enables adding explanatory comments to the Lua output.
func WithComments(include bool) WriterOption {
	return func(w *Writer) {
		w.includeComments = include
	}
}

// NewWriter creates a new Writer with the given options.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{includeComments: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSettings renders a complete settings file.
func (w *Writer) WriteSettings(s *Settings) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("settings are nil")
	}

	var buf bytes.Buffer
	if w.includeComments {
		buf.WriteString("-- radial-menu settings\n")
		buf.WriteString("-- Colors accept #rrggbbaa, #rrggbb, rgb(), rgba() or a name.\n\n")
	}

	buf.WriteString("radial.settings = {\n")
	w.writeInt(&buf, "layer_count", s.Ring.LayerCount)
	w.writeInt(&buf, "inner_radius", s.Ring.InnerRadius)
	w.writeInt(&buf, "category_ring_width", s.Ring.CategoryRingWidth)
	w.writeInt(&buf, "layer_width", s.Ring.LayerWidth)
	w.writeInt(&buf, "margin", s.Ring.Margin)
	w.writeString(&buf, "background_color", FormatColor(s.Theme.Background))
	w.writeString(&buf, "hover_color", FormatColor(s.Theme.Hover))
	w.writeString(&buf, "center_color", FormatColor(s.Theme.Center))
	w.writeFloat(&buf, "font_size", s.Theme.FontSize)
	if s.Theme.Logo != "" {
		w.writeString(&buf, "logo", s.Theme.Logo)
	}
	if s.Theme.Font != "" {
		w.writeString(&buf, "font", s.Theme.Font)
	}
	buf.WriteString("}\n\n")

	w.writeCommands(&buf, CommandSet{Categories: s.Categories, Layers: s.Layers})
	return buf.Bytes(), nil
}

// WriteCommands renders a command export file: category names and entry
// tables only.
func (w *Writer) WriteCommands(cs CommandSet) []byte {
	var buf bytes.Buffer
	if w.includeComments {
		buf.WriteString("-- radial-menu commands\n\n")
	}
	w.writeCommands(&buf, cs)
	return buf.Bytes()
}

func (w *Writer) writeCommands(buf *bytes.Buffer, cs CommandSet) {
	buf.WriteString("radial.categories = {\n")
	for _, name := range cs.Categories {
		fmt.Fprintf(buf, "    %s,\n", luaQuote(name))
	}
	buf.WriteString("}\n\n")

	buf.WriteString("radial.layers = {\n")
	for l, table := range cs.Layers {
		if w.includeComments {
			fmt.Fprintf(buf, "    -- layer %d: %d entries per category\n", l+1, geometry.EntriesPerCategory(l+1))
		}
		buf.WriteString("    {\n")
		for _, e := range table {
			fmt.Fprintf(buf, "        { name = %s, command = %s },\n", luaQuote(e.Name), luaQuote(e.Command))
		}
		buf.WriteString("    },\n")
	}
	buf.WriteString("}\n")
}

// writeString writes a string setting to the buffer.
func (w *Writer) writeString(buf *bytes.Buffer, name, value string) {
	fmt.Fprintf(buf, "    %s = %s,\n", name, luaQuote(value))
}

// writeInt writes an integer setting to the buffer.
func (w *Writer) writeInt(buf *bytes.Buffer, name string, value int) {
	fmt.Fprintf(buf, "    %s = %d,\n", name, value)
}

// writeFloat writes a float setting to the buffer.
func (w *Writer) writeFloat(buf *bytes.Buffer, name string, value float64) {
	fmt.Fprintf(buf, "    %s = %s,\n", name, strconv.FormatFloat(value, 'f', -1, 64))
}

// luaQuote returns s as a double-quoted Lua string literal. Control bytes
// use decimal escapes, which every Lua version understands.
func luaQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03d`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
