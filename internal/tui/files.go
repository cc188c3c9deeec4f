package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// supported lists the extensions the sidebar offers.
var supported = map[string]bool{".json": true, ".csv": true, ".geojson": true, ".nc": true}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.setStatus("read dir error: " + err.Error())
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if supported[ext] {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
}

// openPath hands a sidebar selection to the active scene.
func (m *Model) openPath(p string) tea.Cmd {
	m.selPath = p
	cmd, status, ok := m.sc.open(p)
	if !ok {
		m.setStatus("unsupported in " + m.sc.name() + " mode: " + filepath.Base(p))
		return nil
	}
	m.opts.Log.Info("open file", "path", p, "mode", m.sc.name())
	m.setStatus(status)
	return cmd
}
