package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection. A nil *Collector is
// valid and records nothing.
type Collector struct {
	// Render metrics
	RenderOps      *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	RenderRejected *prometheus.CounterVec
	VisibleRecords prometheus.Gauge

	// Load metrics
	LoadRecords *prometheus.CounterVec
	LoadErrors  *prometheus.CounterVec

	// Color scale
	ColorDomain *prometheus.GaugeVec
}

// NewCollector creates a collector registered on reg.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		RenderOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_ops_total",
				Help:      "Total number of shape reconciliation operations by kind",
			},
			[]string{"op"}, // "enter", "update", "exit"
		),

		RenderDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Duration of a single render reconciliation in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),

		RenderRejected: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_rejected_total",
				Help:      "Total number of rejected render calls by reason",
			},
			[]string{"reason"},
		),

		VisibleRecords: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "visible_records",
				Help:      "Number of records in the visible set after the last render",
			},
		),

		LoadRecords: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_records_total",
				Help:      "Total number of records loaded by source",
			},
			[]string{"source"},
		),

		LoadErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_errors_total",
				Help:      "Total number of failed loads by source",
			},
			[]string{"source"},
		),

		ColorDomain: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "color_domain",
				Help:      "Current color scale domain bounds",
			},
			[]string{"bound"}, // "lo", "hi"
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordRender records the outcome of one successful render.
func (c *Collector) RecordRender(entered, updated, exited, visible int, d time.Duration) {
	if c == nil {
		return
	}
	c.RenderOps.WithLabelValues("enter").Add(float64(entered))
	c.RenderOps.WithLabelValues("update").Add(float64(updated))
	c.RenderOps.WithLabelValues("exit").Add(float64(exited))
	c.VisibleRecords.Set(float64(visible))
	c.RenderDuration.Observe(d.Seconds())
}

// RecordRejected increments the rejected render counter
func (c *Collector) RecordRejected(reason string) {
	if c == nil {
		return
	}
	c.RenderRejected.WithLabelValues(reason).Inc()
}

// RecordLoad adds n loaded records for source
func (c *Collector) RecordLoad(source string, n int) {
	if c == nil {
		return
	}
	c.LoadRecords.WithLabelValues(source).Add(float64(n))
}

// RecordLoadError increments the load error counter
func (c *Collector) RecordLoadError(source string) {
	if c == nil {
		return
	}
	c.LoadErrors.WithLabelValues(source).Inc()
}

// SetColorDomain publishes the active color domain
func (c *Collector) SetColorDomain(lo, hi float64) {
	if c == nil {
		return
	}
	c.ColorDomain.WithLabelValues("lo").Set(lo)
	c.ColorDomain.WithLabelValues("hi").Set(hi)
}
