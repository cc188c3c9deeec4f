// Package engine keeps a set of on-screen shapes in sync with a dataset.
//
// Every record is bound to at most one shape through a caller-supplied
// identity key. Render diffs the new visible set against the previous one:
// new keys enter with their attributes applied at once, surviving keys have
// their attributes retargeted with a transition, and vanished keys exit
// immediately.
//
// An Engine is not safe for concurrent use. Render must not be called again
// until the previous call has returned.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/gogpu/gg"

	"wxvis/internal/logging"
	"wxvis/internal/metrics"
	"wxvis/internal/scale"
)

// DefaultDuration is the transition length for updated shapes.
const DefaultDuration = 250 * time.Millisecond

// Attr declares how one visual attribute is derived from a record. Exactly
// one of Num or Color must be set.
type Attr[R any] struct {
	Name  string
	Num   func(R) float64
	Color func(R) gg.RGBA
}

// NumAttr declares a numeric attribute such as cx or r.
func NumAttr[R any](name string, fn func(R) float64) Attr[R] {
	return Attr[R]{Name: name, Num: fn}
}

// ColorAttr declares a color attribute such as fill.
func ColorAttr[R any](name string, fn func(R) gg.RGBA) Attr[R] {
	return Attr[R]{Name: name, Color: fn}
}

func (a Attr[R]) eval(r R) Value {
	if a.Color != nil {
		return Color(a.Color(r))
	}
	return Num(a.Num(r))
}

// Config is the one-time setup of an Engine.
type Config[R any] struct {
	// Scales by axis name: "x", "y", "color", "radius".
	Scales   map[string]scale.Scale
	Identity func(R) string
	Attrs    []Attr[R]
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	duration   time.Duration
	now        func() time.Time
	log        *slog.Logger
	metrics    *metrics.Collector
	onDomain   func(lo, hi float64)
	pLo, pHi   float64
	colorScale string
}

// WithDuration sets the default transition duration.
func WithDuration(d time.Duration) Option { return func(o *options) { o.duration = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

func WithMetrics(c *metrics.Collector) Option { return func(o *options) { o.metrics = c } }

// WithDomainListener is called whenever RecolorForWindow changes the color
// domain, so legends can be regenerated.
func WithDomainListener(fn func(lo, hi float64)) Option {
	return func(o *options) { o.onDomain = fn }
}

// WithPercentiles sets the quantiles used by RecolorForWindow.
func WithPercentiles(lo, hi float64) Option {
	return func(o *options) { o.pLo, o.pHi = lo, hi }
}

// RenderOption tunes a single Render call.
type RenderOption func(*renderOptions)

type renderOptions struct {
	duration time.Duration
}

// WithRenderDuration overrides the transition duration for one call. Zero
// applies updates immediately.
func WithRenderDuration(d time.Duration) RenderOption {
	return func(o *renderOptions) { o.duration = d }
}

// Result reports what one Render call did.
type Result struct {
	Entered []string
	Updated []string
	Exited  []string
	Visible int
}

// Ops is the total number of shape operations.
func (r Result) Ops() int { return len(r.Entered) + len(r.Updated) + len(r.Exited) }

// Engine is the render engine for records of type R.
type Engine[R any] struct {
	scales   map[string]scale.Scale
	identity func(R) string
	attrs    []Attr[R]
	opts     options

	shapes map[string]*Shape[R]
	keys   []string
	nextID uint64
}

// New validates cfg and returns an engine with no shapes.
func New[R any](cfg Config[R], opts ...Option) (*Engine[R], error) {
	o := options{
		duration:   DefaultDuration,
		now:        time.Now,
		log:        logging.Discard(),
		pLo:        0.05,
		pHi:        0.95,
		colorScale: "color",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Identity == nil {
		return nil, ErrNoIdentity
	}
	if len(cfg.Attrs) == 0 {
		return nil, ErrNoAttrs
	}
	seen := make(map[string]bool, len(cfg.Attrs))
	for _, a := range cfg.Attrs {
		if (a.Num == nil) == (a.Color == nil) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAttr, a.Name)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAttr, a.Name)
		}
		seen[a.Name] = true
	}
	names := make([]string, 0, len(cfg.Scales))
	for name := range cfg.Scales {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := cfg.Scales[name]
		if s == nil {
			return nil, &scale.ConfigError{Scale: name, Reason: "nil scale"}
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("configure %s: %w", name, err)
		}
	}
	return &Engine[R]{
		scales:   cfg.Scales,
		identity: cfg.Identity,
		attrs:    cfg.Attrs,
		opts:     o,
		shapes:   make(map[string]*Shape[R]),
	}, nil
}

// Render reconciles the shapes with the records of dataset accepted by pred.
// A nil pred accepts every record. On a duplicate key the call is rejected
// and no shape changes.
func (e *Engine[R]) Render(dataset []R, pred func(R) bool, opts ...RenderOption) (Result, error) {
	now := e.opts.now()
	ro := renderOptions{duration: e.opts.duration}
	for _, opt := range opts {
		opt(&ro)
	}

	visible := make([]R, 0, len(dataset))
	keys := make([]string, 0, len(dataset))
	index := make(map[string]int, len(dataset))
	for _, r := range dataset {
		if pred != nil && !pred(r) {
			continue
		}
		k := e.identity(r)
		if first, dup := index[k]; dup {
			err := &DuplicateKeyError{Key: k, First: first, Second: len(visible)}
			e.opts.log.Warn("render rejected", "err", err)
			e.opts.metrics.RecordRejected("duplicate_key")
			return Result{}, err
		}
		index[k] = len(visible)
		visible = append(visible, r)
		keys = append(keys, k)
	}

	res := Result{Visible: len(visible)}
	for _, k := range e.keys {
		if _, ok := index[k]; !ok {
			delete(e.shapes, k)
			res.Exited = append(res.Exited, k)
		}
	}
	if len(visible) == 0 {
		e.keys = nil
		e.record(res, now)
		return res, nil
	}

	for i, r := range visible {
		k := keys[i]
		if s, ok := e.shapes[k]; ok {
			if e.update(s, r, now, ro.duration) {
				res.Updated = append(res.Updated, k)
			}
			continue
		}
		e.enter(k, r)
		res.Entered = append(res.Entered, k)
	}
	e.keys = keys
	e.record(res, now)
	return res, nil
}

func (e *Engine[R]) enter(k string, r R) {
	e.nextID++
	s := &Shape[R]{id: e.nextID, key: k, datum: r, ch: make(map[string]*channel, len(e.attrs))}
	for _, a := range e.attrs {
		v := a.eval(r)
		s.ch[a.Name] = &channel{from: v, to: v}
	}
	e.shapes[k] = s
}

func (e *Engine[R]) update(s *Shape[R], r R, now time.Time, dur time.Duration) bool {
	s.datum = r
	changed := false
	for _, a := range e.attrs {
		if s.ch[a.Name].retarget(a.eval(r), now, dur) {
			changed = true
		}
	}
	return changed
}

func (e *Engine[R]) record(res Result, start time.Time) {
	d := e.opts.now().Sub(start)
	e.opts.metrics.RecordRender(len(res.Entered), len(res.Updated), len(res.Exited), res.Visible, d)
	if res.Ops() > 0 {
		e.opts.log.Debug("render",
			"visible", res.Visible,
			"entered", len(res.Entered),
			"updated", len(res.Updated),
			"exited", len(res.Exited))
	}
}

// RecolorForWindow sets the color scale's domain to the configured
// percentiles (5th and 95th by default) of value over the records accepted
// by pred. Records for which value reports false, or a value that is not
// finite, are skipped. With no values
// the previous domain is kept. Call it before Render so the new colors are
// picked up.
func (e *Engine[R]) RecolorForWindow(dataset []R, pred func(R) bool, value func(R) (float64, bool)) (lo, hi float64, changed bool, err error) {
	ds, ok := e.scales[e.opts.colorScale].(scale.DomainSetter)
	if !ok {
		return 0, 0, false, ErrNoColorScale
	}
	prev := ds.Domain()
	vals := make([]float64, 0, len(dataset))
	for _, r := range dataset {
		if pred != nil && !pred(r) {
			continue
		}
		if v, ok := value(r); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	d, ok := scale.PercentileDomain(vals, e.opts.pLo, e.opts.pHi)
	if !ok || d == prev {
		return prev[0], prev[1], false, nil
	}
	ds.SetDomain(d[0], d[1])
	e.opts.metrics.SetColorDomain(d[0], d[1])
	e.opts.log.Debug("color domain", "lo", d[0], "hi", d[1], "values", len(vals))
	if e.opts.onDomain != nil {
		e.opts.onDomain(d[0], d[1])
	}
	return d[0], d[1], true, nil
}

// Tick settles finished transitions and reports whether any are still
// running at now.
func (e *Engine[R]) Tick(now time.Time) bool {
	running := false
	for _, s := range e.shapes {
		for _, c := range s.ch {
			if c.animating(now) {
				running = true
			} else if c.dur > 0 {
				*c = channel{from: c.to, to: c.to}
			}
		}
	}
	return running
}

// Animating reports whether any shape is mid-transition at now.
func (e *Engine[R]) Animating(now time.Time) bool {
	for _, s := range e.shapes {
		if s.animating(now) {
			return true
		}
	}
	return false
}

// Now is the engine's clock.
func (e *Engine[R]) Now() time.Time { return e.opts.now() }

func (e *Engine[R]) Len() int { return len(e.shapes) }

// Keys returns the current key set in the order of the last render.
func (e *Engine[R]) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

func (e *Engine[R]) Shape(key string) (*Shape[R], bool) {
	s, ok := e.shapes[key]
	return s, ok
}

// Shapes returns every shape ordered by key.
func (e *Engine[R]) Shapes() []*Shape[R] {
	out := make([]*Shape[R], 0, len(e.shapes))
	for _, s := range e.shapes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func (e *Engine[R]) Scale(name string) (scale.Scale, bool) {
	s, ok := e.scales[name]
	return s, ok
}

// Nearest returns the shape whose (xAttr, yAttr) position at now is closest
// to (x, y) and no further than maxDist.
func (e *Engine[R]) Nearest(xAttr, yAttr string, x, y, maxDist float64, now time.Time) (*Shape[R], bool) {
	var best *Shape[R]
	bestD := maxDist * maxDist
	for _, s := range e.Shapes() {
		sx, okx := s.Value(xAttr, now)
		sy, oky := s.Value(yAttr, now)
		if !okx || !oky {
			continue
		}
		dx, dy := sx.Num-x, sy.Num-y
		if d := dx*dx + dy*dy; d <= bestD && (best == nil || d < bestD) {
			best, bestD = s, d
		}
	}
	return best, best != nil
}
