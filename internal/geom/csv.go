package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// LoadTable reads a CSV file with a header row.
func LoadTable(path string) (header []string, rows []map[string]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

// ReadTable reads CSV with a header row into one map per row. Short rows
// leave the missing columns absent.
func ReadTable(r io.Reader) (header []string, rows []map[string]string, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(recs) == 0 {
		return nil, nil, errors.New("empty csv")
	}
	header = make([]string, len(recs[0]))
	for i, h := range recs[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	rows = make([]map[string]string, 0, len(recs)-1)
	for _, rec := range recs[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// LatLonColumns finds the latitude and longitude columns.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
func LatLonColumns(header []string) (lat, lon string, err error) {
	for _, h := range header {
		switch strings.ToLower(h) {
		case "lat", "latitude", "y":
			if lat == "" {
				lat = h
			}
		case "lon", "lng", "long", "longitude", "x":
			if lon == "" {
				lon = h
			}
		}
	}
	if lat == "" || lon == "" {
		return "", "", errors.New("csv: latitude/longitude columns not found")
	}
	return lat, lon, nil
}
