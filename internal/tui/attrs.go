package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
)

const maxColW = 24

// refreshAttrs rebuilds the table from the records currently visible.
func (m *Model) refreshAttrs() {
	cols, rows := m.sc.records()
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.setStatus("no visible records")
		return
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for _, r := range rows {
		for i, v := range r {
			if i < len(widths) && len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for i, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(maxColW, widths[i]+1)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		cells := make([]string, len(tcols))
		cells[0] = fmt.Sprintf("%d", i+1)
		copy(cells[1:], r)
		trows = append(trows, table.Row(cells))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}
