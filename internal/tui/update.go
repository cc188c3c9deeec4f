package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"

	"wxvis/internal/snapshot"
)

// zoomStep is the factor applied per +/- key press.
const zoomStep = 1.25

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
	for _, p := range []string{"load failed", "render rejected", "recolor failed", "states:", "snapshot failed"} {
		if strings.HasPrefix(s, p) {
			m.statusErr = true
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.ticking = false
		if m.sc.tick(m.opts.Now()) {
			m.ticking = true
			return m, frame()
		}
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if cmd, done := m.handleKey(msg); done {
			return m, cmd
		}
	case tea.MouseMsg:
		m.hover(msg)
	default:
		if cmd, status, ok := m.sc.update(msg); ok {
			m.setStatus(status)
			cmds = append(cmds, cmd)
			if m.showAttrs {
				m.refreshAttrs()
			}
		}
	}
	cmds = append(cmds, m.animate())
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey runs the shared keys, then offers the key to the scene. done
// reports that the key was consumed and cmd is final.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, max(4, m.height-4))
		}
		return nil, true
	case "h":
		m.helpVisible = !m.helpVisible
		return nil, true
	case "t":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
		return nil, true
	case "s":
		m.setStatus(m.writeSnapshot())
		return nil, true
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				return m.openPath(it.path), true
			}
		}
		return nil, true
	case "up", "down", "pgup", "pgdown":
		if m.showAttrs {
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return cmd, true
		}
		if m.showSidebar {
			return nil, false
		}
	}

	if m.sc.zoomable() && m.sc.ready() {
		vw, vh := m.sc.canvas()
		step := vw / 20
		switch msg.String() {
		case "+", "=":
			m.zoom = m.zoom.ScaleBy(zoomStep, vw/2, vh/2)
			m.setStatus(fmt.Sprintf("zoom: %.2fx", m.zoom.K))
			return nil, true
		case "-", "_":
			m.zoom = m.zoom.ScaleBy(1/zoomStep, vw/2, vh/2)
			m.setStatus(fmt.Sprintf("zoom: %.2fx", m.zoom.K))
			return nil, true
		case "ctrl+left":
			m.zoom = m.zoom.Translate(step, 0)
			return nil, true
		case "ctrl+right":
			m.zoom = m.zoom.Translate(-step, 0)
			return nil, true
		case "ctrl+up":
			m.zoom = m.zoom.Translate(0, step)
			return nil, true
		case "ctrl+down":
			m.zoom = m.zoom.Translate(0, -step)
			return nil, true
		}
	}

	cmd, status, ok := m.sc.update(msg)
	if !ok {
		return nil, false
	}
	m.setStatus(status)
	if m.showAttrs {
		m.refreshAttrs()
	}
	return tea.Batch(cmd, m.animate()), true
}

// hover tracks the mouse over the canvas and picks the nearest shape.
func (m *Model) hover(msg tea.MouseMsg) {
	_, cr, _ := m.layout()
	if !m.sc.ready() || m.showAttrs || !cr.contains(msg.X, msg.Y) {
		m.hovering = false
		m.tooltip = ""
		return
	}
	m.hovering = true
	m.hoverCellX = msg.X - cr.x
	m.hoverCellY = msg.Y - cr.y
	x, y := m.fromCell(m.hoverCellX, m.hoverCellY, cr)
	m.tooltip, _ = m.sc.nearest(x, y, m.hoverRadius(cr), m.opts.Now())
}

// writeSnapshot renders the full canvas, ignoring zoom, to a PNG file.
func (m *Model) writeSnapshot() string {
	if !m.sc.ready() {
		return "snapshot failed: nothing loaded"
	}
	now := m.opts.Now()
	path := filepath.Join(m.opts.SnapshotDir, fmt.Sprintf("wxvis-%s-%s.png", m.sc.name(), now.Format("20060102-150405")))
	if err := writePNG(m.sc, m.opts, now, path); err != nil {
		m.opts.Log.Error("snapshot", "err", err)
		return "snapshot failed: " + err.Error()
	}
	m.opts.Log.Info("snapshot written", "path", path)
	return "wrote " + path
}

// writePNG draws the scene's marks, outlines and legend at now.
func writePNG(sc scene, o Options, now time.Time, path string) error {
	vw, vh := sc.canvas()
	opts := []snapshot.Option{snapshot.WithOutlines(sc.outlines(), gg.RGB(0.6, 0.6, 0.6))}
	if l, ok := sc.legend(); ok {
		opts = append(opts, snapshot.WithLegend(l))
	}
	if o.Config.Font != "" {
		opts = append(opts, snapshot.WithFont(o.Config.Font, 11))
	}
	im, err := snapshot.Render(int(vw), int(vh), sc.marks(now), opts...)
	if err != nil {
		return err
	}
	defer im.Close()
	return im.WritePNG(path)
}
