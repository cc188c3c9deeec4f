package weather

import (
	"math"
	"strconv"
	"strings"

	"wxvis/internal/geom"
)

// Row is one raw record keyed by column name.
type Row map[string]string

// Columns kept by StripFields.
var Columns = []string{"station", "state", "latitude", "longitude", "date",
	"TAVG", "TMIN", "TMAX", "PRCP", "SNOW", "SNWD", "AWND", "WSF5", "WDF5"}

// StripFields drops every column not in Columns.
func StripFields(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		kept := make(Row, len(Columns))
		for _, c := range Columns {
			if v, ok := r[c]; ok {
				kept[c] = v
			}
		}
		out = append(out, kept)
	}
	return out
}

// CoerceTypes parses coordinates, dates and measurements. Empty or
// unparseable measurements become nil. Rows without a usable position or
// date are dropped and reported.
func CoerceTypes(rows []Row) ([]Observation, []error) {
	out := make([]Observation, 0, len(rows))
	var errs []error
	for _, r := range rows {
		lat, err := parseFloat("latitude", r["latitude"])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lon, err := parseFloat("longitude", r["longitude"])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		date, err := ParseDate(strings.TrimSpace(r["date"]))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		o := Observation{
			Station:   strings.TrimSpace(r["station"]),
			State:     strings.TrimSpace(r["state"]),
			Latitude:  lat,
			Longitude: lon,
			Date:      date,
		}
		for _, f := range Measurements {
			if v, err := parseFloat(string(f), r[string(f)]); err == nil {
				o.Set(f, v)
			}
		}
		out = append(out, o)
	}
	return out, errs
}

// FilterBounds keeps observations inside bb.
func FilterBounds(obs []Observation, bb geom.BBox) []Observation {
	keep := InBounds(bb)
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// Pipeline runs StripFields, CoerceTypes and FilterBounds in order.
func Pipeline(rows []Row, bb geom.BBox) ([]Observation, []error) {
	obs, errs := CoerceTypes(StripFields(rows))
	return FilterBounds(obs, bb), errs
}

func parseFloat(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: field, Value: s, Message: "empty"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Value: s, Message: "not a number"}
	}
	return v, nil
}
