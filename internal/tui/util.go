package tui

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawLine draws a line between two cells of buf using box-drawing glyphs.
func drawLine(buf []string, x0, y0, x1, y1 int) {
	if y0 < 0 && y1 < 0 {
		return
	}
	if y0 >= len(buf) && y1 >= len(buf) {
		return
	}
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
	glyph := '•'
	switch {
	case dy == 0 && dx > 0:
		glyph = '─'
	case dx == 0 && dy != 0:
		glyph = '│'
	}
	err := dx + dy
	for {
		if y0 >= 0 && y0 < len(buf) {
			r := []rune(buf[y0])
			if x0 >= 0 && x0 < len(r) {
				if (r[x0] == '─' && glyph == '│') || (r[x0] == '│' && glyph == '─') {
					r[x0] = '┼'
				} else {
					r[x0] = glyph
				}
			}
			buf[y0] = string(r)
		}
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

// blank returns h rows of w spaces.
func blank(w, h int) []string {
	row := make([]rune, w)
	for i := range row {
		row[i] = ' '
	}
	lines := make([]string, h)
	for i := range lines {
		lines[i] = string(row)
	}
	return lines
}

// place writes s into buf at (x, y), clipped to the row.
func place(buf []string, x, y int, s string) {
	if y < 0 || y >= len(buf) {
		return
	}
	r := []rune(buf[y])
	for i, c := range []rune(s) {
		if x+i >= 0 && x+i < len(r) {
			r[x+i] = c
		}
	}
	buf[y] = string(r)
}
