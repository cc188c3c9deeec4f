package geom

import "github.com/paulmach/orb"

// BBox is a lon (X) / lat (Y) box.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// ContiguousUS bounds the lower 48 states.
var ContiguousUS = BBox{MinX: -124.78, MinY: 24.52, MaxX: -66.95, MaxY: 49.38}

// Bound converts to an orb.Bound.
func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// Contains reports whether (x, y) lies inside b, edges included.
func (b BBox) Contains(x, y float64) bool {
	return b.Bound().Contains(orb.Point{x, y})
}

// Valid reports whether b has positive area.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// extend grows b to cover pt; first reports whether pt is the first point.
func (b *BBox) extend(pt [2]float64, first bool) {
	if first {
		*b = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
		return
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
}

// State is one boundary feature: a code, a name and its polygons (rings of
// lon/lat, first ring outer).
type State struct {
	Code     string
	Name     string
	Polygons [][][][2]float64
}
