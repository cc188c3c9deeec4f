// Package dataload runs the one-shot dataset loads behind the views.
//
// Each source is a Loader: a name used for logs and metrics plus a function
// that produces the dataset. Async runs a loader once off the UI goroutine
// and delivers exactly one Done value.
package dataload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wxvis/internal/logging"
	"wxvis/internal/metrics"
)

// Loader produces one dataset of type T.
type Loader[T any] struct {
	Source string
	Load   func(ctx context.Context) (T, error)
	// Count reports how many records a loaded value holds, for metrics.
	Count func(T) int
}

// Done is the single outcome of a load.
type Done[T any] struct {
	Source string
	Value  T
	Err    error
}

// Options tune Run and Async.
type Options struct {
	Log     *slog.Logger
	Metrics *metrics.Collector
}

func (o Options) logger() *slog.Logger {
	if o.Log == nil {
		return logging.Discard()
	}
	return o.Log
}

// Run loads l synchronously. Failures are logged once and counted; there is
// no retry.
func Run[T any](ctx context.Context, l Loader[T], o Options) Done[T] {
	log := o.logger().With("source", l.Source)
	start := time.Now()
	v, err := l.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load %s: %w", l.Source, err)
		log.Error("load failed", "err", err)
		o.Metrics.RecordLoadError(l.Source)
		return Done[T]{Source: l.Source, Err: err}
	}
	n := 0
	if l.Count != nil {
		n = l.Count(v)
	}
	o.Metrics.RecordLoad(l.Source, n)
	log.Info("loaded", "records", n, "took", time.Since(start))
	return Done[T]{Source: l.Source, Value: v}
}

// Async runs l in a goroutine. The returned channel is buffered and receives
// exactly one value, then is closed.
func Async[T any](ctx context.Context, l Loader[T], o Options) <-chan Done[T] {
	ch := make(chan Done[T], 1)
	go func() {
		defer close(ch)
		ch <- Run(ctx, l, o)
	}()
	return ch
}
