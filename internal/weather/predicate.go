package weather

import (
	"time"

	"wxvis/internal/geom"
)

// Predicate selects the visible subset of a dataset.
type Predicate func(Observation) bool

// HasValue keeps observations where f was observed.
func HasValue(f Field) Predicate {
	return func(o Observation) bool {
		_, ok := o.Value(f)
		return ok
	}
}

// OnDay keeps observations dated idx days after epoch.
func OnDay(epoch time.Time, idx int) Predicate {
	day := DateAt(epoch, idx)
	return func(o Observation) bool {
		y, m, d := o.Date.Date()
		return y == day.Year() && m == day.Month() && d == day.Day()
	}
}

// InBounds keeps observations inside bb.
func InBounds(bb geom.BBox) Predicate {
	return func(o Observation) bool { return bb.Contains(o.Longitude, o.Latitude) }
}

// Projector is anything that can place lon/lat on screen.
type Projector interface {
	Project(lon, lat float64) (x, y float64, ok bool)
}

// Projected keeps observations that have a pixel position under p.
func Projected(p Projector) Predicate {
	return func(o Observation) bool {
		_, _, ok := p.Project(o.Longitude, o.Latitude)
		return ok
	}
}

// And keeps observations accepted by every predicate.
func And(ps ...Predicate) Predicate {
	return func(o Observation) bool {
		for _, p := range ps {
			if p != nil && !p(o) {
				return false
			}
		}
		return true
	}
}
