package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	mapR, canvasR, footer := m.layout()

	// Header
	header := titleStyle.Render(" wxvis ─ " + m.sc.name() + " ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, mapR.h-2)
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		// Render the records table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapR.w, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapR.h-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapR.w, mapR.h, lipgloss.Center, lipgloss.Center, box)
	case !m.sc.ready():
		mapView = lipgloss.Place(mapR.w, mapR.h, lipgloss.Center, lipgloss.Center, dimStyle.Render("no data"))
	default:
		canvas := m.renderCanvas(canvasR, m.opts.Now())
		if m.tooltip != "" {
			canvas = m.overlayTooltip(canvas, canvasR)
		}
		if ax, ok := m.sc.axes(); ok {
			canvas = renderAxes(ax, canvas, mapR, canvasR)
		}
		mapView = lipgloss.NewStyle().Width(mapR.w).Height(mapR.h).Render(canvas)
	}

	var body string
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	} else {
		body = mapView
	}

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// overlayTooltip draws the tooltip box next to the hovered cell, flipping
// to the left or upward when it would leave the canvas.
func (m Model) overlayTooltip(canvas string, cr rect) string {
	box := tooltipBox.Render(m.tooltip)
	bw, bh := lipgloss.Width(box), lipgloss.Height(box)
	x := m.hoverCellX + 2
	if x+bw > cr.w {
		x = max(0, m.hoverCellX-bw-1)
	}
	y := m.hoverCellY
	if y+bh > cr.h {
		y = max(0, cr.h-bh)
	}
	lines := strings.Split(canvas, "\n")
	for i, bl := range strings.Split(box, "\n") {
		row := y + i
		if row >= len(lines) {
			break
		}
		lines[row] = overlayCells(lines[row], x, bl)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter(width int) string {
	style := dimStyle
	if m.statusErr {
		style = errorStyle
	}
	status := style.Render(" " + m.status + " ")
	line := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	if f := m.sc.footer(width); f != "" && m.sc.ready() {
		return lipgloss.JoinVertical(lipgloss.Left, f, line)
	}
	return line
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := append(m.sc.help(),
		"Tab sidebar",
		"Enter open",
		"t table",
		"s snapshot",
		"h help",
		"q quit",
	)
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
