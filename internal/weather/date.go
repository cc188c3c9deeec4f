package weather

import (
	"strconv"
	"time"
)

// DateLayout is the 8-digit date encoding used by station files.
const DateLayout = "20060102"

// DefaultEpoch is day 0 of the date slider.
var DefaultEpoch = time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseDate reads YYYYMMDD: year from chars 0-3, month from 4-5 (1-based in
// the text), day from 6-7. Out-of-range parts are rejected rather than
// normalized.
func ParseDate(s string) (time.Time, error) {
	if len(s) != 8 {
		return time.Time{}, &ValidationError{Field: "date", Value: s, Message: "expected 8 digits YYYYMMDD"}
	}
	y, err1 := strconv.Atoi(s[0:4])
	m, err2 := strconv.Atoi(s[4:6])
	d, err3 := strconv.Atoi(s[6:8])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, &ValidationError{Field: "date", Value: s, Message: "expected 8 digits YYYYMMDD"}
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, &ValidationError{Field: "date", Value: s, Message: "no such calendar day"}
	}
	return t, nil
}

// DayIndex is the number of whole days from epoch to t.
func DayIndex(epoch, t time.Time) int {
	e := time.Date(epoch.Year(), epoch.Month(), epoch.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(e).Hours() / 24)
}

// DateAt is the day idx days after epoch.
func DateAt(epoch time.Time, idx int) time.Time {
	return time.Date(epoch.Year(), epoch.Month(), epoch.Day()+idx, 0, 0, 0, 0, time.UTC)
}

// DayRange returns the min and max day index over obs; ok is false for an
// empty slice.
func DayRange(epoch time.Time, obs []Observation) (lo, hi int, ok bool) {
	for i, o := range obs {
		d := DayIndex(epoch, o.Date)
		if i == 0 || d < lo {
			lo = d
		}
		if i == 0 || d > hi {
			hi = d
		}
	}
	return lo, hi, len(obs) > 0
}
