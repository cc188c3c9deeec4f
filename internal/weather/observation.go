// Package weather models daily station observations and the pure stages
// that turn raw CSV rows into them.
package weather

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Observation is one station's readings for one day. A nil measurement was
// not observed.
type Observation struct {
	Station   string    `json:"station" db:"station_id"`
	State     string    `json:"state" db:"state"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Date      time.Time `json:"date" db:"observation_date"`

	TAVG *float64 `json:"TAVG,omitempty" db:"tavg"`
	TMIN *float64 `json:"TMIN,omitempty" db:"tmin"`
	TMAX *float64 `json:"TMAX,omitempty" db:"tmax"`
	PRCP *float64 `json:"PRCP,omitempty" db:"prcp"`
	SNOW *float64 `json:"SNOW,omitempty" db:"snow"`
	SNWD *float64 `json:"SNWD,omitempty" db:"snwd"`
	AWND *float64 `json:"AWND,omitempty" db:"awnd"`
	WSF5 *float64 `json:"WSF5,omitempty" db:"wsf5"`
	WDF5 *float64 `json:"WDF5,omitempty" db:"wdf5"`
}

// Field names a numeric measurement column.
type Field string

const (
	TAVG Field = "TAVG"
	TMIN Field = "TMIN"
	TMAX Field = "TMAX"
	PRCP Field = "PRCP"
	SNOW Field = "SNOW"
	SNWD Field = "SNWD"
	AWND Field = "AWND"
	WSF5 Field = "WSF5"
	WDF5 Field = "WDF5"
)

// Measurements lists every numeric column in file order.
var Measurements = []Field{TAVG, TMIN, TMAX, PRCP, SNOW, SNWD, AWND, WSF5, WDF5}

func (o *Observation) ptr(f Field) **float64 {
	switch f {
	case TAVG:
		return &o.TAVG
	case TMIN:
		return &o.TMIN
	case TMAX:
		return &o.TMAX
	case PRCP:
		return &o.PRCP
	case SNOW:
		return &o.SNOW
	case SNWD:
		return &o.SNWD
	case AWND:
		return &o.AWND
	case WSF5:
		return &o.WSF5
	case WDF5:
		return &o.WDF5
	}
	return nil
}

// Value returns the measurement f, or false when it was not observed or is
// not a finite number.
func (o Observation) Value(f Field) (float64, bool) {
	p := o.ptr(f)
	if p == nil || *p == nil || math.IsNaN(**p) || math.IsInf(**p, 0) {
		return 0, false
	}
	return **p, true
}

// Set stores v as measurement f.
func (o *Observation) Set(f Field, v float64) {
	if p := o.ptr(f); p != nil {
		*p = &v
	}
}

// Key identifies the station an observation belongs to, so the same station
// keeps its shape from one day to the next.
func (o Observation) Key() string {
	return o.Station + "|" +
		strconv.FormatFloat(o.Latitude, 'f', -1, 64) + "|" +
		strconv.FormatFloat(o.Longitude, 'f', -1, 64)
}

// Describe returns the tooltip text for the observation.
func (o Observation) Describe() string {
	s := fmt.Sprintf("%s (%s)\n%s", o.Station, o.State, o.Date.Format("2006-01-02"))
	for _, f := range []Field{TAVG, TMIN, TMAX} {
		if v, ok := o.Value(f); ok {
			s += fmt.Sprintf("\n%s: %.2f°C", f, v)
		} else {
			s += fmt.Sprintf("\n%s: n/a", f)
		}
	}
	return s
}

// ValidationError reports a field that could not be coerced.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}
