package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"wxvis/internal/config"
	"wxvis/internal/logging"
	"wxvis/internal/metrics"
)

const metricsNamespace = "wxvis"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wxvis",
		Short:         "Animated scatter plots and weather maps in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.String("log-format", "text", "text or json")
	pf.String("log-file", "", "log destination while the TUI owns the terminal")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	pf.Duration("transition", 250*time.Millisecond, "update transition length")
	pf.String("palette", "rdylbu", "color palette: rdylbu or viridis")
	pf.Float64("percentile-lo", 0.05, "lower quantile of the windowed color domain")
	pf.Float64("percentile-hi", 0.95, "upper quantile of the windowed color domain")
	pf.Int("width", 600, "canvas width in pixels")
	pf.Int("height", 400, "canvas height in pixels")
	pf.String("font", "", "TrueType font for snapshot legends")

	root.AddCommand(newScatterCmd(), newWeatherCmd(), newSnapshotCmd())
	return root
}

// addDataFlags registers the weather data sources.
func addDataFlags(fs *pflag.FlagSet) {
	fs.String("stations", "", "station CSV file")
	fs.String("states", "", "state outlines GeoJSON file")
	fs.String("epoch", "2017-01-01", "date of slider position 0")
	fs.String("dsn", "", "load observations from Postgres instead of a CSV")
	fs.String("from", "", "first date loaded from Postgres")
	fs.String("to", "", "last date loaded from Postgres")
	fs.String("era5", "", "load daily cells from an ERA5 NetCDF file")
	fs.Int("era5-step", 1, "keep every n-th ERA5 grid cell")
}

// env is what every command needs after flags are parsed.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	metrics *metrics.Collector
	closers []func()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// setup resolves config, opens the log and starts the metrics server. When
// the TUI owns stdout, logs go to the configured file.
func setup(cmd *cobra.Command, tuiOwnsTerminal bool) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg}

	var w io.Writer = os.Stderr
	if tuiOwnsTerminal {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		e.closers = append(e.closers, func() { f.Close() })
		w = f
	}
	if e.log, err = logging.New(w, cfg.Log.Level, cfg.Log.Format); err != nil {
		e.Close()
		return nil, err
	}
	e.log = e.log.With("cmd", cmd.Name())

	if cfg.MetricsAddr == "" {
		return e, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	e.metrics = metrics.NewCollector(metricsNamespace, reg)
	e.closers = append(e.closers, serveMetrics(cfg.MetricsAddr, reg, e.log))
	return e, nil
}

// serveMetrics exposes reg on /metrics and returns a shutdown func.
func serveMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) func() {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("metrics listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("metrics shutdown", "err", err)
		}
	}
}
