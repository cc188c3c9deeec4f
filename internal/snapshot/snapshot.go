// Package snapshot rasterizes the current set of shapes to PNG.
package snapshot

import (
	"fmt"
	"io"
	"time"

	"github.com/gogpu/gg"

	"wxvis/internal/engine"
	"wxvis/internal/legend"
)

// Circle is one filled mark in pixel space.
type Circle struct {
	X, Y, R float64
	Fill    gg.RGBA
}

// Circles reads the cx, cy, r and fill attributes of every shape at now.
// Shapes missing any of them are skipped.
func Circles[R any](shapes []*engine.Shape[R], now time.Time) []Circle {
	out := make([]Circle, 0, len(shapes))
	for _, s := range shapes {
		cx, ok1 := s.Value("cx", now)
		cy, ok2 := s.Value("cy", now)
		r, ok3 := s.Value("r", now)
		fill, ok4 := s.Value("fill", now)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		out = append(out, Circle{X: cx.Num, Y: cy.Num, R: r.Num, Fill: fill.Color})
	}
	return out
}

type options struct {
	background gg.RGBA
	legend     *legend.Legend
	outlines   [][][2]float64
	outline    gg.RGBA
	fontPath   string
	fontSize   float64
}

// Option tunes Render.
type Option func(*options)

func WithBackground(c gg.RGBA) Option { return func(o *options) { o.background = c } }

// WithLegend draws l along the bottom edge.
func WithLegend(l legend.Legend) Option { return func(o *options) { o.legend = &l } }

// WithOutlines strokes closed pixel-space rings under the circles.
func WithOutlines(rings [][][2]float64, c gg.RGBA) Option {
	return func(o *options) { o.outlines, o.outline = rings, c }
}

// WithFont loads a TrueType font for legend labels.
func WithFont(path string, size float64) Option {
	return func(o *options) { o.fontPath, o.fontSize = path, size }
}

// legendHeight is the strip reserved at the bottom for the legend.
const legendHeight = 40

// Image is a rendered snapshot.
type Image struct {
	dc *gg.Context
}

// Render draws circles on a w x h canvas.
func Render(w, h int, circles []Circle, opts ...Option) (*Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("snapshot: invalid size %dx%d", w, h)
	}
	o := options{background: gg.White, outline: gg.RGB(0.6, 0.6, 0.6), fontSize: 11}
	for _, opt := range opts {
		opt(&o)
	}
	dc := gg.NewContext(w, h)
	if o.fontPath != "" {
		if err := dc.LoadFontFace(o.fontPath, o.fontSize); err != nil {
			_ = dc.Close()
			return nil, fmt.Errorf("snapshot: load font: %w", err)
		}
	}
	dc.ClearWithColor(o.background)

	if len(o.outlines) > 0 {
		dc.SetFillBrush(gg.Solid(o.outline))
		dc.SetLineWidth(1)
		for _, ring := range o.outlines {
			if len(ring) < 2 {
				continue
			}
			dc.MoveTo(ring[0][0], ring[0][1])
			for _, p := range ring[1:] {
				dc.LineTo(p[0], p[1])
			}
			dc.ClosePath()
			_ = dc.Stroke()
		}
	}

	for _, c := range circles {
		if c.R <= 0 {
			continue
		}
		dc.SetFillBrush(gg.Solid(c.Fill))
		dc.DrawCircle(c.X, c.Y, c.R)
		_ = dc.Fill()
	}

	if o.legend != nil && h > legendHeight {
		bw := float64(w) / 2
		o.legend.Draw(dc, (float64(w)-bw)/2, float64(h-legendHeight+8), bw, 10)
	}
	return &Image{dc: dc}, nil
}

// Encode writes the image as PNG.
func (im *Image) Encode(w io.Writer) error { return im.dc.EncodePNG(w) }

// WritePNG saves the image to path.
func (im *Image) WritePNG(path string) error { return im.dc.SavePNG(path) }

// Close releases the drawing context.
func (im *Image) Close() error { return im.dc.Close() }
