package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"

	"wxvis/internal/scale"
)

// brailleBuf is a canvas of 2x4 micro-pixels per terminal cell. Each cell
// remembers the color of the last mark drawn into it.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	fg   [][]string
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	fg := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		fg[i] = make([]string, w)
	}
	return &brailleBuf{w: w, h: h, m: m, fg: fg}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) bool {
	if mx < 0 || my < 0 {
		return false
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return false
	}
	b.m[cy][cx] |= brailleBits[mx%2][my%4]
	return true
}

// setColorPixel sets a micro-pixel and colors its cell.
func (b *brailleBuf) setColorPixel(mx, my int, c gg.RGBA) {
	if b.setPixel(mx, my) {
		b.fg[my/4][mx/2] = scale.Hex(c)
	}
}

// fillDisk sets every micro-pixel within r of (cx, cy). A radius under one
// micro-pixel still sets the center.
func (b *brailleBuf) fillDisk(cx, cy int, r float64, c gg.RGBA) {
	ri := int(r)
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				b.setColorPixel(cx+dx, cy+dy, c)
			}
		}
	}
	b.setColorPixel(cx, cy, c)
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// toLines renders the buffer. Uncolored pixels use the dim style.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var row strings.Builder
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				row.WriteByte(' ')
				continue
			}
			glyph := string(rune(0x2800 + int(mask)))
			if fg := b.fg[y][x]; fg != "" {
				row.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Render(glyph))
			} else {
				row.WriteString(dimStyle.Render(glyph))
			}
		}
		out[y] = row.String()
	}
	return out
}
