// Package legend turns a sequential color scale into a gradient bar with
// tick labels, for the terminal footer and for PNG snapshots.
package legend

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"

	"wxvis/internal/scale"
)

const (
	DefaultStops = 16
	DefaultTicks = 5
)

// Stop is one gradient color at an offset in [0, 1].
type Stop struct {
	Offset float64
	Color  gg.RGBA
}

// Tick is a labelled position on the bar.
type Tick struct {
	Offset float64
	Value  float64
	Label  string
}

// Legend is a snapshot of a color scale. Rebuild it when the domain changes.
type Legend struct {
	Title  string
	Domain [2]float64
	Stops  []Stop
	Ticks  []Tick
}

// New samples s into stops gradient stops and about ticks tick labels.
func New(title string, s *scale.Sequential, stops, ticks int) Legend {
	if stops < 2 {
		stops = 2
	}
	d := s.Domain()
	interp := s.Interpolator()
	l := Legend{Title: title, Domain: d, Stops: make([]Stop, stops)}
	for i := range l.Stops {
		t := float64(i) / float64(stops-1)
		l.Stops[i] = Stop{Offset: t, Color: interp(t)}
	}
	for _, v := range scale.Ticks(d[0], d[1], ticks) {
		l.Ticks = append(l.Ticks, Tick{Offset: offset(d, v), Value: v, Label: Label(v)})
	}
	return l
}

// Label formats a tick value.
func Label(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func offset(d [2]float64, v float64) float64 {
	if d[1] == d[0] {
		return 0.5
	}
	t := (v - d[0]) / (d[1] - d[0])
	return min(1, max(0, t))
}

// ColorAt interpolates the stops at t in [0, 1].
func (l Legend) ColorAt(t float64) gg.RGBA {
	if len(l.Stops) == 0 {
		return scale.Unknown
	}
	t = min(1, max(0, t))
	for i := 1; i < len(l.Stops); i++ {
		a, b := l.Stops[i-1], l.Stops[i]
		if t <= b.Offset {
			if b.Offset == a.Offset {
				return b.Color
			}
			return a.Color.Lerp(b.Color, (t-a.Offset)/(b.Offset-a.Offset))
		}
	}
	return l.Stops[len(l.Stops)-1].Color
}

// Bar renders the gradient as width colored cells, with a second line of
// tick labels under it.
func (l Legend) Bar(width int) string {
	if width < 2 {
		width = 2
	}
	var bar strings.Builder
	for i := 0; i < width; i++ {
		c := l.ColorAt((float64(i) + 0.5) / float64(width))
		bar.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(scale.Hex(c))).Render(" "))
	}
	return bar.String() + "\n" + l.labels(width)
}

// labels places each tick label starting at its column. Labels that would
// overlap the previous one are dropped.
func (l Legend) labels(width int) string {
	row := []rune(strings.Repeat(" ", width))
	next := 0
	for _, t := range l.Ticks {
		lab := []rune(t.Label)
		col := int(t.Offset*float64(width-1) + 0.5)
		if col+len(lab) > width {
			col = width - len(lab)
		}
		if col < next || col < 0 {
			continue
		}
		copy(row[col:], lab)
		next = col + len(lab) + 1
	}
	return strings.TrimRight(string(row), " ")
}

// Draw paints the bar into the rectangle (x, y, w, h) with tick marks below
// it. Labels are drawn only when dc has a font face.
func (l Legend) Draw(dc *gg.Context, x, y, w, h float64) {
	grad := gg.NewLinearGradientBrush(x, y, x+w, y)
	for _, s := range l.Stops {
		grad.AddColorStop(s.Offset, s.Color)
	}
	dc.Push()
	defer dc.Pop()
	dc.SetFillBrush(grad)
	dc.DrawRectangle(x, y, w, h)
	_ = dc.Fill()

	dc.SetFillBrush(gg.Solid(gg.Black))
	dc.SetLineWidth(1)
	for _, t := range l.Ticks {
		tx := x + t.Offset*w
		dc.DrawLine(tx, y+h, tx, y+h+4)
		_ = dc.Stroke()
		dc.DrawStringAnchored(t.Label, tx, y+h+6, 0.5, 1)
	}
	if l.Title != "" {
		dc.DrawStringAnchored(l.Title, x, y-4, 0, 0)
	}
}
