package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontStyle selects the regular or bold face.
type FontStyle int

const (
	// FontStyleRegular is used for entry labels.
	FontStyleRegular FontStyle = iota
	// FontStyleBold is used for category names and the hub label.
	FontStyleBold
)

// String returns the string representation of the font style.
func (fs FontStyle) String() string {
	switch fs {
	case FontStyleRegular:
		return "regular"
	case FontStyleBold:
		return "bold"
	default:
		return "unknown"
	}
}

type faceKey struct {
	style FontStyle
	size  float64
}

// FontManager owns the font sources and caches faces by style and size.
type FontManager struct {
	sources map[FontStyle]*text.FontSource
	faces   map[faceKey]text.Face
	mu      sync.Mutex
}

// NewFontManager creates a FontManager backed by the embedded Go fonts.
func NewFontManager() (*FontManager, error) {
	sources, err := embeddedSources()
	if err != nil {
		return nil, err
	}
	return &FontManager{sources: sources, faces: make(map[faceKey]text.Face)}, nil
}

func embeddedSources() (map[FontStyle]*text.FontSource, error) {
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		regular.Close()
		return nil, fmt.Errorf("failed to load embedded bold font: %w", err)
	}
	return map[FontStyle]*text.FontSource{
		FontStyleRegular: regular,
		FontStyleBold:    bold,
	}, nil
}

// UseEmbedded switches back to the embedded Go fonts after LoadFontFromFile.
func (fm *FontManager) UseEmbedded() error {
	sources, err := embeddedSources()
	if err != nil {
		return err
	}
	fm.replace(sources)
	return nil
}

func (fm *FontManager) replace(sources map[FontStyle]*text.FontSource) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	old := fm.sources
	fm.sources = sources
	fm.faces = make(map[faceKey]text.Face)
	closeSources(old)
}

// LoadFontFromFile replaces both styles with the font at path. Bold labels
// then use the same face; a single user font rarely ships both weights.
func (fm *FontManager) LoadFontFromFile(path string) error {
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load font %s: %w", path, err)
	}

	fm.replace(map[FontStyle]*text.FontSource{
		FontStyleRegular: src,
		FontStyleBold:    src,
	})
	return nil
}

// Face returns a cached face for style at size.
func (fm *FontManager) Face(style FontStyle, size float64) text.Face {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	key := faceKey{style: style, size: size}
	if f, ok := fm.faces[key]; ok {
		return f
	}
	src, ok := fm.sources[style]
	if !ok {
		src = fm.sources[FontStyleRegular]
	}
	f := src.Face(size)
	fm.faces[key] = f
	return f
}

// Close releases the font sources.
func (fm *FontManager) Close() error {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	err := closeSources(fm.sources)
	fm.sources = nil
	fm.faces = nil
	return err
}

func closeSources(sources map[FontStyle]*text.FontSource) error {
	seen := make(map[*text.FontSource]bool)
	var errs []error
	for _, src := range sources {
		if src == nil || seen[src] {
			continue
		}
		seen[src] = true
		if err := src.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
