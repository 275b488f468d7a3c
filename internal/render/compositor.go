// Package render rasterises the radial menu into an off-screen RGBA buffer
// with per-pixel alpha. It has no window system dependency; presenting the
// buffer is the caller's job.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/opd-ai/go-radial/internal/config"
	"github.com/opd-ai/go-radial/internal/geometry"
)

// arcStep is the largest angle, in degrees, spanned by one outline segment.
const arcStep = 1.5

// labelFill is the share of a sector's mid-radius chord a label may use.
const labelFill = 0.9

var (
	// ErrClosed is returned when rendering after Close.
	ErrClosed = errors.New("compositor is closed")
	// ErrRenderPanic wraps a panic recovered while drawing a frame.
	ErrRenderPanic = errors.New("render panic")
)

// Labels supplies the text drawn in the rings. *config.Settings implements it.
type Labels interface {
	CategoryName(c int) string
	Item(l, c, i int) config.MenuEntry
}

// Scene is everything a frame depends on.
type Scene struct {
	Ring   geometry.RingConfig
	Center geometry.Point
	Hover  geometry.Target
	Theme  Theme
	Labels Labels
}

// CompositorOption configures a Compositor.
type CompositorOption func(*Compositor)

// WithMetrics records frame timings into fm.
func WithMetrics(fm *FrameMetrics) CompositorOption {
	return func(c *Compositor) {
		c.metrics = fm
	}
}

// WithFonts uses fm for labels instead of creating a FontManager. The
// compositor takes ownership and closes fm.
func WithFonts(fm *FontManager) CompositorOption {
	return func(c *Compositor) {
		c.fonts = fm
	}
}

// Compositor draws scenes into a square gg canvas. gg.Context.Image copies
// the canvas, so each completed frame is a snapshot that later draws never
// touch; a failed frame leaves the previous snapshot on screen.
type Compositor struct {
	size    int
	dc      *gg.Context
	frame   *image.RGBA
	fonts   *FontManager
	logo    *gg.ImageBuf
	metrics *FrameMetrics
	closed  bool
	mu      sync.Mutex
}

// NewCompositor creates a Compositor with a size x size canvas.
func NewCompositor(size int, opts ...CompositorOption) (*Compositor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}
	c := &Compositor{size: size}
	for _, opt := range opts {
		opt(c)
	}
	if c.fonts == nil {
		fm, err := NewFontManager()
		if err != nil {
			return nil, err
		}
		c.fonts = fm
	}
	if c.metrics == nil {
		c.metrics = NewFrameMetrics()
	}
	c.dc = gg.NewContext(size, size)
	return c, nil
}

// Size returns the side of the square canvas in pixels.
func (c *Compositor) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Metrics returns the frame timing statistics.
func (c *Compositor) Metrics() *FrameMetrics {
	return c.metrics
}

// Fonts returns the font manager used for labels.
func (c *Compositor) Fonts() *FontManager {
	return c.fonts
}

// Resize reallocates the canvas. The current frame is dropped.
func (c *Compositor) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("invalid buffer size %d", size)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if size == c.size {
		return nil
	}
	if err := c.dc.Resize(size, size); err != nil {
		return err
	}
	c.size = size
	c.frame = nil
	return nil
}

// SetLogo sets the image drawn in the hub. A nil image restores the
// fallback label.
func (c *Compositor) SetLogo(img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img == nil {
		c.logo = nil
		return
	}
	c.logo = gg.ImageBufFromImage(img)
}

// HasLogo reports whether a logo is set.
func (c *Compositor) HasLogo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logo != nil
}

// Frame returns the last completed frame, or nil before the first one. The
// image must not be modified.
func (c *Compositor) Frame() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Render draws s and returns the new frame. On failure, including a
// panic inside the rasterizer, the previous frame is returned with the error.
func (c *Compositor) Render(s Scene) (img *image.RGBA, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
		if err != nil {
			c.metrics.RecordFailure()
			img = c.frame
			return
		}
		c.metrics.RecordFrame(time.Since(start))
	}()

	if s.Labels == nil {
		return nil, fmt.Errorf("scene has no labels")
	}
	if err := s.Ring.Validate(); err != nil {
		return nil, err
	}
	if err := c.draw(c.dc, s); err != nil {
		return nil, err
	}

	out := c.dc.Image()
	frame, ok := out.(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected buffer type %T", out)
	}
	c.frame = frame
	return frame, nil
}

// Close releases the canvas, the logo and the fonts. It is safe to call
// more than once.
func (c *Compositor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.logo = nil
	c.frame = nil
	return errors.Join(c.dc.Close(), c.fonts.Close())
}

// draw paints the layer rings from the outside in, then the category ring,
// then the hub, so inner rings cover the seams of outer ones.
func (c *Compositor) draw(dc *gg.Context, s Scene) error {
	dc.ResetClip()
	dc.ClearPath()
	dc.Clear()

	th := s.Theme
	entryFace := c.fonts.Face(FontStyleRegular, th.FontSize)
	for l := s.Ring.LayerCount; l >= 1; l-- {
		for cat := 0; cat < geometry.CategoryCount; cat++ {
			for i := 0; i < geometry.EntriesPerCategory(l); i++ {
				sec := geometry.EntrySector(s.Center, s.Ring, cat, l, i)
				fill, pen, fg := th.EntryFill, th.EntryPen, th.EntryText
				if s.Hover == geometry.EntryTarget(cat, l, i) {
					fill, pen, fg = th.EntryHover, th.EntryHoverPen, th.EntryHoverText
				}
				if err := paintSector(dc, sec, fill, pen); err != nil {
					return err
				}
				if e := s.Labels.Item(l, cat, i); !e.IsEmpty() {
					drawLabel(dc, entryFace, e.Name, sec, fg)
				}
			}
		}
	}

	catFace := c.fonts.Face(FontStyleBold, th.FontSize+1)
	for cat := 0; cat < geometry.CategoryCount; cat++ {
		sec := geometry.CategorySector(s.Center, s.Ring, cat)
		fill, pen := th.CategoryFill, th.CategoryPen
		if s.Hover == geometry.CategoryTarget(cat) {
			fill, pen = th.CategoryHover, th.CategoryHoverPen
		}
		if err := paintSector(dc, sec, fill, pen); err != nil {
			return err
		}
		drawLabel(dc, catFace, s.Labels.CategoryName(cat), sec, th.CategoryText)
	}

	return c.drawHub(dc, s)
}

func (c *Compositor) drawHub(dc *gg.Context, s Scene) error {
	th := s.Theme
	r := s.Ring.InnerRadius
	cx, cy := s.Center.X, s.Center.Y

	if c.logo != nil {
		dc.DrawCircle(cx, cy, r)
		dc.Clip()
		dc.DrawImageEx(c.logo, gg.DrawImageOptions{
			X:         cx - r,
			Y:         cy - r,
			DstWidth:  2 * r,
			DstHeight: 2 * r,
		})
		dc.ResetClip()
	} else {
		setColor(dc, th.HubFill)
		dc.DrawCircle(cx, cy, r)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to fill hub: %w", err)
		}

		face := c.fonts.Face(FontStyleBold, th.FontSize+2)
		dc.SetFont(face)
		setColor(dc, th.HubText)
		lineHeight := face.Metrics().Ascent + face.Metrics().Descent
		dc.DrawStringAnchored(hubLabel[0], cx, cy-lineHeight/2, 0.5, 0.5)
		dc.DrawStringAnchored(hubLabel[1], cx, cy+lineHeight/2, 0.5, 0.5)
	}

	setColor(dc, th.HubPen.Color)
	dc.SetLineWidth(th.HubPen.Width)
	dc.DrawCircle(cx, cy, r)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to stroke hub: %w", err)
	}
	return nil
}

// paintSector fills and outlines sec using the same polygon for both.
func paintSector(dc *gg.Context, sec geometry.Sector, fill color.RGBA, pen Pen) error {
	tracePath(dc, sec)
	setColor(dc, fill)
	if err := dc.FillPreserve(); err != nil {
		dc.ClearPath()
		return fmt.Errorf("failed to fill sector: %w", err)
	}
	setColor(dc, pen.Color)
	dc.SetLineWidth(pen.Width)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to stroke sector: %w", err)
	}
	return nil
}

func tracePath(dc *gg.Context, sec geometry.Sector) {
	pts := sec.Outline(arcStep)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

// drawLabel centers name on the sector's mid point, shortened to fit the
// chord at mid radius.
func drawLabel(dc *gg.Context, face text.Face, name string, sec geometry.Sector, fg color.RGBA) {
	if name == "" {
		return
	}
	dc.SetFont(face)
	// Labels are horizontal: near the top and bottom they run along the
	// chord, near the sides across the ring.
	chord := 2 * sec.MidRadius() * math.Sin(sec.Sweep/2*math.Pi/180)
	maxWidth := math.Max(chord, sec.Outer-sec.Inner) * labelFill
	label := FitLabel(name, maxWidth, func(s string) float64 {
		w, _ := dc.MeasureString(s)
		return w
	})
	if label == "" {
		return
	}
	mid := sec.Mid()
	setColor(dc, fg)
	dc.DrawStringAnchored(label, mid.X, mid.Y, 0.5, 0.5)
}

// setColor sets a straight-alpha color. gg.FromColor would read the
// premultiplied channels of color.RGBA.
func setColor(dc *gg.Context, c color.RGBA) {
	r, g, b, a := channels(c)
	dc.SetRGBA(r, g, b, a)
}
