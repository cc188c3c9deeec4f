package dataload

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"wxvis/internal/geom"
	"wxvis/internal/weather"
)

// observationsQuery joins daily observations with their station. Values are
// already in degrees Celsius and centimetres.
const observationsQuery = `
	SELECT s.station_id, s.state, s.latitude, s.longitude,
	       o.observation_date,
	       o.max_temperature_celsius, o.min_temperature_celsius, o.precipitation_cm
	FROM weather_observations o
	JOIN weather_stations s ON s.station_id = o.station_id
	WHERE o.observation_date BETWEEN $1 AND $2
	ORDER BY o.observation_date, s.station_id`

type observationRow struct {
	StationID string    `db:"station_id"`
	State     string    `db:"state"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	Date      time.Time `db:"observation_date"`
	MaxC      *float64  `db:"max_temperature_celsius"`
	MinC      *float64  `db:"min_temperature_celsius"`
	PrecipCm  *float64  `db:"precipitation_cm"`
}

// toObservation maps a row onto an observation. TAVG is the mean of the
// daily max and min when both are present.
func (r observationRow) toObservation() weather.Observation {
	y, m, d := r.Date.Date()
	o := weather.Observation{
		Station:   r.StationID,
		State:     r.State,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Date:      time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TMAX:      r.MaxC,
		TMIN:      r.MinC,
	}
	if r.PrecipCm != nil {
		o.Set(weather.PRCP, *r.PrecipCm*10)
	}
	if r.MaxC != nil && r.MinC != nil {
		o.Set(weather.TAVG, (*r.MaxC+*r.MinC)/2)
	}
	return o
}

// QueryObservations reads observations dated in [from, to] and keeps those
// inside bb.
func QueryObservations(ctx context.Context, db sqlx.QueryerContext, from, to time.Time, bb geom.BBox) ([]weather.Observation, error) {
	var rows []observationRow
	if err := sqlx.SelectContext(ctx, db, &rows, observationsQuery, from, to); err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	obs := make([]weather.Observation, 0, len(rows))
	for _, r := range rows {
		obs = append(obs, r.toObservation())
	}
	return weather.FilterBounds(obs, bb), nil
}

// Postgres loads observations from a weather platform database.
func Postgres(dsn string, from, to time.Time, bb geom.BBox) Loader[[]weather.Observation] {
	return Loader[[]weather.Observation]{
		Source: "postgres",
		Load: func(ctx context.Context) ([]weather.Observation, error) {
			db, err := sqlx.Open("postgres", dsn)
			if err != nil {
				return nil, fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				return nil, fmt.Errorf("ping database: %w", err)
			}
			return QueryObservations(ctx, db, from, to, bb)
		},
		Count: func(o []weather.Observation) int { return len(o) },
	}
}
