package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"wxvis/internal/config"
	"wxvis/internal/dataload"
	"wxvis/internal/geom"
	"wxvis/internal/tui"
)

func newScatterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scatter [points.json]",
		Short: "Interactive scatter plot with add, remove and update",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			m, err := tui.NewScatter(path, e.options())
			if err != nil {
				return err
			}
			return run(m, e.log)
		},
	}
}

func newWeatherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather [stations.csv]",
		Short: "Daily station temperatures on a US map",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("stations", args[0]); err != nil {
					return err
				}
			}
			e, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()
			src, err := sources(e.cfg, e.log)
			if err != nil {
				return err
			}
			m, err := tui.NewWeather(src, e.options())
			if err != nil {
				return err
			}
			return run(m, e.log)
		},
	}
	addDataFlags(cmd.Flags())
	return cmd
}

func newSnapshotCmd() *cobra.Command {
	var (
		day    string
		out    string
		global bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one day of the weather map to a PNG without the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()
			src, err := sources(e.cfg, e.log)
			if err != nil {
				return err
			}
			req := tui.SnapshotRequest{Global: global, Path: out}
			if day != "" {
				if req.Day, err = time.Parse(time.DateOnly, day); err != nil {
					return fmt.Errorf("--day: %w", err)
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tui.WeatherSnapshot(ctx, src, req, e.options())
		},
	}
	addDataFlags(cmd.Flags())
	cmd.Flags().StringVar(&day, "day", "", "day to render (YYYY-MM-DD), defaults to the first day in the data")
	cmd.Flags().StringVarP(&out, "out", "o", "wxvis-weather.png", "output PNG path")
	cmd.Flags().BoolVar(&global, "global", false, "color by the whole-dataset extent")
	return cmd
}

func (e *env) options() tui.Options {
	return tui.Options{Config: e.cfg, Log: e.log, Metrics: e.metrics}
}

// sources picks the observation loader: Postgres, then ERA5, then CSV.
func sources(cfg config.Config, log *slog.Logger) (tui.Sources, error) {
	bb := geom.ContiguousUS
	src := tui.Sources{States: cfg.States}
	switch {
	case cfg.DSN != "":
		if cfg.From.IsZero() || cfg.To.IsZero() {
			return src, errors.New("--dsn needs --from and --to")
		}
		src.Observations = dataload.Postgres(cfg.DSN, cfg.From, cfg.To, bb)
	case cfg.ERA5 != "":
		src.Observations = dataload.ERA5(cfg.ERA5, cfg.ERA5Step, bb)
	case cfg.Stations != "":
		src.Observations = dataload.StationsCSV(cfg.Stations, bb, func(n int, first error) {
			log.Warn("rows skipped", "source", cfg.Stations, "count", n, "first", first)
		})
	default:
		return src, errors.New("no observations: pass a stations CSV, --dsn or --era5")
	}
	return src, nil
}

func run(m tea.Model, log *slog.Logger) error {
	log.Info("starting")
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error("tui", "err", err)
		return err
	}
	log.Info("exited")
	return nil
}
