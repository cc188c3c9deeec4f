package scale

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Interpolator returns a color for t in [0, 1].
type Interpolator func(t float64) gg.RGBA

// Named interpolators. RdYlBu runs from blue (cold) to red (hot).
var (
	RdYlBu = FromStops(
		"#313695", "#4575b4", "#74add1", "#abd9e9", "#e0f3f8", "#ffffbf",
		"#fee090", "#fdae61", "#f46d43", "#d73027", "#a50026",
	)
	Viridis = FromStops(
		"#440154", "#482777", "#3f4a8a", "#31678e", "#26838f",
		"#1f9d8a", "#6cce5a", "#b6de2b", "#fee825",
	)
)

// FromStops builds a piecewise interpolator that blends evenly spaced hex
// stops in Lab space. It panics on a malformed stop; stops are constants.
func FromStops(hex ...string) Interpolator {
	stops := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("scale: bad color stop " + h)
		}
		stops[i] = c
	}
	return func(t float64) gg.RGBA {
		switch len(stops) {
		case 0:
			return gg.Black
		case 1:
			return toRGBA(stops[0])
		}
		if math.IsNaN(t) {
			return Unknown
		}
		t = clamp01(t)
		pos := t * float64(len(stops)-1)
		i := int(pos)
		if i >= len(stops)-1 {
			return toRGBA(stops[len(stops)-1])
		}
		return toRGBA(stops[i].BlendLab(stops[i+1], pos-float64(i)))
	}
}

func toRGBA(c colorful.Color) gg.RGBA {
	c = c.Clamped()
	return gg.RGB(c.R, c.G, c.B)
}

// ParseColor accepts a CSS color name ("red", "steelblue") or a hex string.
func ParseColor(s string) (gg.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return gg.RGBA{}, fmt.Errorf("parse color: empty")
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return gg.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return toRGBA(c), nil
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return gg.RGBA{}, fmt.Errorf("parse color %q: unknown name", s)
	}
	return gg.FromColor(c), nil
}

// Hex formats a color as #rrggbb.
func Hex(c gg.RGBA) string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
