package dataload

import (
	"context"
	"fmt"

	"wxvis/internal/geom"
	"wxvis/internal/points"
	"wxvis/internal/weather"
)

// StationsCSV loads daily station rows and runs them through the weather
// pipeline. Rows that fail to coerce are dropped; the count is reported
// through onSkipped when set.
func StationsCSV(path string, bb geom.BBox, onSkipped func(n int, first error)) Loader[[]weather.Observation] {
	return Loader[[]weather.Observation]{
		Source: "csv",
		Load: func(ctx context.Context) ([]weather.Observation, error) {
			_, table, err := geom.LoadTable(path)
			if err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows := make([]weather.Row, len(table))
			for i, r := range table {
				rows[i] = weather.Row(r)
			}
			obs, errs := weather.Pipeline(rows, bb)
			if len(errs) > 0 && onSkipped != nil {
				onSkipped(len(errs), errs[0])
			}
			if len(obs) == 0 && len(errs) > 0 {
				return nil, fmt.Errorf("no usable rows: %w", errs[0])
			}
			return obs, nil
		},
		Count: func(o []weather.Observation) int { return len(o) },
	}
}

// PointsJSON loads a scatter dataset.
func PointsJSON(path string) Loader[[]points.Point] {
	return Loader[[]points.Point]{
		Source: "json",
		Load: func(context.Context) ([]points.Point, error) {
			return points.LoadJSON(path)
		},
		Count: func(p []points.Point) int { return len(p) },
	}
}

// StatesGeoJSON loads contiguous-US state boundaries.
func StatesGeoJSON(path string) Loader[[]geom.State] {
	return Loader[[]geom.State]{
		Source: "geojson",
		Load: func(context.Context) ([]geom.State, error) {
			states, _, err := geom.LoadStates(path)
			return states, err
		},
		Count: func(s []geom.State) int { return len(s) },
	}
}
