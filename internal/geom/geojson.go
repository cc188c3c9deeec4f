package geom

import (
	"errors"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
)

// Non-contiguous state codes and names excluded from the map.
var (
	excludedCodes = map[string]bool{"02": true, "15": true, "72": true}
	excludedNames = map[string]bool{"Alaska": true, "Hawaii": true, "Puerto Rico": true}
)

// LoadStates reads a GeoJSON FeatureCollection of state boundaries.
func LoadStates(path string) ([]State, BBox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, BBox{}, err
	}
	return ParseStates(data)
}

// ParseStates decodes state boundaries, dropping Alaska, Hawaii and Puerto
// Rico by code (STATE, STATEFP or feature id) or by NAME.
func ParseStates(data []byte) ([]State, BBox, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, BBox{}, fmt.Errorf("geojson: %w", err)
	}
	var (
		states []State
		bb     BBox
		n      int
	)
	addRing := func(ring [][]float64) [][2]float64 {
		out := make([][2]float64, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			pt := [2]float64{c[0], c[1]}
			bb.extend(pt, n == 0)
			n++
			out = append(out, pt)
		}
		return out
	}
	addPoly := func(poly [][][]float64) [][][2]float64 {
		rings := make([][][2]float64, 0, len(poly))
		for _, ring := range poly {
			rings = append(rings, addRing(ring))
		}
		return rings
	}
	for _, f := range fc.Features {
		code := featureCode(f)
		name, _ := f.PropertyString("NAME")
		if excludedCodes[code] || excludedNames[name] {
			continue
		}
		if f.Geometry == nil {
			continue
		}
		s := State{Code: code, Name: name}
		switch f.Geometry.Type {
		case geojson.GeometryPolygon:
			s.Polygons = append(s.Polygons, addPoly(f.Geometry.Polygon))
		case geojson.GeometryMultiPolygon:
			for _, poly := range f.Geometry.MultiPolygon {
				s.Polygons = append(s.Polygons, addPoly(poly))
			}
		default:
			continue
		}
		states = append(states, s)
	}
	if len(states) == 0 {
		return nil, BBox{}, errors.New("no state boundaries found")
	}
	return states, bb, nil
}

func featureCode(f *geojson.Feature) string {
	for _, k := range []string{"STATE", "STATEFP"} {
		if v, err := f.PropertyString(k); err == nil && v != "" {
			return v
		}
	}
	if s, ok := f.ID.(string); ok {
		return s
	}
	return ""
}
