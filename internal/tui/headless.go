package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wxvis/internal/dataload"
	"wxvis/internal/geom"
	"wxvis/internal/weather"
)

// SnapshotRequest describes one headless weather render.
type SnapshotRequest struct {
	// Day defaults to the first day in the data.
	Day time.Time
	// Global colors by the whole-dataset extent instead of the day's
	// percentile window.
	Global bool
	Path   string
}

// WeatherSnapshot loads src synchronously, selects the requested day and
// writes the settled canvas as a PNG.
func WeatherSnapshot(ctx context.Context, src Sources, req SnapshotRequest, opts Options) error {
	if req.Path == "" {
		return errors.New("snapshot: no output path")
	}
	opts.Config.Transition = 0
	m, err := NewWeather(src, opts)
	if err != nil {
		return err
	}
	s := m.sc.(*weatherScene)

	obs := dataload.Run(ctx, src.Observations, s.loadOptions())
	if obs.Err != nil {
		return obs.Err
	}
	s.windowed = !req.Global
	s.update(loadedMsg[[]weather.Observation]{done: obs})
	if src.States != "" {
		st := dataload.Run(ctx, dataload.StatesGeoJSON(src.States), s.loadOptions())
		if st.Err != nil {
			return st.Err
		}
		s.update(loadedMsg[[]geom.State]{done: st})
	}

	if !req.Day.IsZero() {
		day := weather.DayIndex(s.opts.Config.Epoch, req.Day)
		if day < s.lo || day > s.hi {
			return fmt.Errorf("snapshot: %s outside the data range %s..%s", req.Day.Format(time.DateOnly),
				weather.DateAt(s.opts.Config.Epoch, s.lo).Format(time.DateOnly),
				weather.DateAt(s.opts.Config.Epoch, s.hi).Format(time.DateOnly))
		}
		s.setDay(day)
	}
	res, err := s.draw()
	if err != nil {
		return err
	}
	if err := writePNG(s, s.opts, s.opts.Now(), req.Path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	s.opts.Log.Info("snapshot written", "path", req.Path, "day", weather.DateAt(s.opts.Config.Epoch, s.day).Format(time.DateOnly), "stations", res.Visible)
	return nil
}
