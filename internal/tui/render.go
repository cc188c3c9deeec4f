package tui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"wxvis/internal/legend"
)

// rect is a screen region in terminal cells.
type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

const (
	sidebarWidth = 28
	headerHeight = 1
	// axis gutter around a scatter canvas
	gutterLeft   = 7
	gutterBottom = 3
)

// layout computes the map region, the canvas inside it and the rendered
// footer. View and the mouse handler share it so hit-testing matches what
// was drawn.
func (m Model) layout() (mapR, canvasR rect, footer string) {
	contentWidth := max(10, m.width)
	footer = m.renderFooter(contentWidth)
	contentHeight := max(4, m.height-headerHeight-lipgloss.Height(footer))

	sw := 0
	if m.showSidebar {
		sw = sidebarWidth + 1
	}
	mapR = rect{x: sw, y: headerHeight, w: max(10, contentWidth-sw-1), h: contentHeight}
	canvasR = mapR
	if _, ok := m.sc.axes(); ok {
		canvasR = rect{x: mapR.x + gutterLeft, y: mapR.y, w: max(4, mapR.w-gutterLeft), h: max(2, mapR.h-gutterBottom)}
	}
	return mapR, canvasR, footer
}

// toMicro maps canvas pixels to braille micro-pixels in r, through the
// zoom transform.
func (m Model) toMicro(px, py float64, r rect) (int, int) {
	vw, vh := m.sc.canvas()
	zx, zy := m.zoom.Apply(px, py)
	mx := int(math.Round(zx / vw * float64(2*r.w-1)))
	my := int(math.Round(zy / vh * float64(4*r.h-1)))
	return mx, my
}

// fromCell maps a cell inside r back to canvas pixels.
func (m Model) fromCell(cx, cy int, r rect) (float64, float64) {
	vw, vh := m.sc.canvas()
	zx := float64(2*cx+1) / float64(2*r.w-1) * vw
	zy := float64(4*cy+2) / float64(4*r.h-1) * vh
	return m.zoom.Invert(zx, zy)
}

// hoverRadius is the tooltip pick distance in canvas pixels: two cells.
func (m Model) hoverRadius(r rect) float64 {
	vw, _ := m.sc.canvas()
	return 2 * vw / float64(r.w) / m.zoom.K
}

func (m Model) renderCanvas(r rect, now time.Time) string {
	br := newBrailleBuf(r.w, r.h)
	vw, _ := m.sc.canvas()
	microPerPx := float64(2*r.w-1) / vw * m.zoom.K

	for _, ring := range m.sc.outlines() {
		for i := range ring {
			a, b := ring[i], ring[(i+1)%len(ring)]
			x0, y0 := m.toMicro(a[0], a[1], r)
			x1, y1 := m.toMicro(b[0], b[1], r)
			br.drawLineMicro(x0, y0, x1, y1)
		}
	}
	for _, c := range m.sc.marks(now) {
		mx, my := m.toMicro(c.X, c.Y, r)
		br.fillDisk(mx, my, c.R*microPerPx, c.Fill)
	}
	lines := br.toLines()

	// Hover highlight: an orange circle at the hovered cell
	if m.hovering && m.tooltip != "" {
		cx, cy := m.hoverCellX, m.hoverCellY
		if cy >= 0 && cy < len(lines) && cx >= 0 && cx < r.w {
			lines[cy] = overlayCells(lines[cy], cx, hoverStyle.Render("◯"))
		}
	}
	return strings.Join(lines, "\n")
}

// overlayCells replaces the cells under s, starting at column x.
func overlayCells(line string, x int, s string) string {
	w := lipgloss.Width(line)
	if x < 0 || x >= w {
		return line
	}
	return ansi.Truncate(line, x, "") + s + ansi.TruncateLeft(line, x+lipgloss.Width(s), "")
}

// renderAxes frames a canvas with y tick labels on the left and x tick
// labels plus the axis title underneath.
func renderAxes(ax axes, canvas string, mapR, canvasR rect) string {
	gutter := blank(gutterLeft, canvasR.h)
	drawLine(gutter, gutterLeft-1, 0, gutterLeft-1, canvasR.h-1)
	if vw := canvasR.h - 1; vw > 0 {
		yr := ax.y.Range()
		for _, t := range ax.y.Ticks(5) {
			row := int(math.Round((ax.y.Map(t) - yr[1]) / (yr[0] - yr[1]) * float64(vw)))
			lab := legend.Label(t)
			place(gutter, gutterLeft-2-len(lab), row, lab)
			place(gutter, gutterLeft-1, row, "┤")
		}
	}
	title := []rune(ax.yTitle)
	start := max(0, (canvasR.h-len(title))/2)
	for i, c := range title {
		place(gutter, 0, start+i, string(c))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, dimStyle.Render(strings.Join(gutter, "\n")), canvas)

	under := blank(mapR.w, gutterBottom)
	drawLine(under, gutterLeft-1, 0, mapR.w-1, 0)
	place(under, gutterLeft-1, 0, "└")
	xr := ax.x.Range()
	for _, t := range ax.x.Ticks(5) {
		col := gutterLeft + int(math.Round((ax.x.Map(t)-xr[0])/(xr[1]-xr[0])*float64(canvasR.w-1)))
		lab := legend.Label(t)
		place(under, col, 0, "┬")
		place(under, min(col-len(lab)/2, mapR.w-len(lab)), 1, lab)
	}
	place(under, gutterLeft+max(0, (canvasR.w-len(ax.xTitle))/2), 2, ax.xTitle)
	return lipgloss.JoinVertical(lipgloss.Left, body, dimStyle.Render(strings.Join(under, "\n")))
}
