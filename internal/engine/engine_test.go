package engine

import (
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"wxvis/internal/metrics"
	"wxvis/internal/scale"
)

type point struct {
	id    string
	x, y  float64
	temp  float64
	valid bool
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(t *testing.T, opts ...Option) (*Engine[point], *fakeClock, *scale.Sequential) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)}
	x := scale.NewLinear([2]float64{0, 100}, [2]float64{0, 500})
	y := scale.NewLinear([2]float64{0, 100}, [2]float64{320, 0})
	color := scale.NewSequential([2]float64{-20, 40}, scale.RdYlBu)
	cfg := Config[point]{
		Scales:   map[string]scale.Scale{"x": x, "y": y, "color": color},
		Identity: func(p point) string { return p.id },
		Attrs: []Attr[point]{
			NumAttr("cx", func(p point) float64 { return x.Map(p.x) }),
			NumAttr("cy", func(p point) float64 { return y.Map(p.y) }),
			ColorAttr("fill", func(p point) gg.RGBA { return color.Map(p.temp) }),
		},
	}
	e, err := New(cfg, append([]Option{WithClock(clk.now)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, clk, color
}

func keysOf(e *Engine[point]) []string {
	var ks []string
	for _, s := range e.Shapes() {
		ks = append(ks, s.Key())
	}
	return ks
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]string(nil), a...)
	b = append([]string(nil), b...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_ConfigErrors(t *testing.T) {
	ok := NumAttr("cx", func(p point) float64 { return p.x })
	id := func(p point) string { return p.id }

	tests := []struct {
		name string
		cfg  Config[point]
		want error
	}{
		{"no identity", Config[point]{Attrs: []Attr[point]{ok}}, ErrNoIdentity},
		{"no attrs", Config[point]{Identity: id}, ErrNoAttrs},
		{"attr without fn", Config[point]{Identity: id, Attrs: []Attr[point]{{Name: "cx"}}}, ErrInvalidAttr},
		{"duplicate attr", Config[point]{Identity: id, Attrs: []Attr[point]{ok, ok}}, ErrDuplicateAttr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("malformed scale", func(t *testing.T) {
		cfg := Config[point]{
			Identity: id,
			Attrs:    []Attr[point]{ok},
			Scales: map[string]scale.Scale{
				"color": scale.NewOrdinal([]string{"a", "b"}, []gg.RGBA{gg.Black}),
			},
		}
		_, err := New(cfg)
		var ce *scale.ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("New() error = %v, want *scale.ConfigError", err)
		}
	})
}

func TestRender_SetEquivalence(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ds := []point{
		{id: "a", x: 10, y: 10, valid: true},
		{id: "b", x: 20, y: 20, valid: false},
		{id: "c", x: 30, y: 30, valid: true},
	}
	valid := func(p point) bool { return p.valid }

	res, err := e.Render(ds, valid)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []string{"a", "c"}
	if !sameSet(keysOf(e), want) {
		t.Errorf("shape keys = %v, want %v", keysOf(e), want)
	}
	if res.Visible != 2 || len(res.Entered) != 2 {
		t.Errorf("result = %+v", res)
	}
	if got := e.Keys(); got[0] != "a" || got[1] != "c" {
		t.Errorf("Keys() = %v, want visible order [a c]", got)
	}
}

func TestRender_Idempotent(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ds := []point{{id: "a", x: 1, y: 2}, {id: "b", x: 3, y: 4}}

	if _, err := e.Render(ds, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	res, err := e.Render(ds, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Ops() != 0 {
		t.Errorf("second render ops = %+v, want none", res)
	}
}

func TestRender_EnterUpdateExit(t *testing.T) {
	e, clk, _ := newTestEngine(t)
	d1 := []point{{id: "a", x: 0, y: 0}, {id: "b", x: 50, y: 50}}
	d2 := []point{{id: "b", x: 100, y: 100}, {id: "c", x: 20, y: 80}}

	if _, err := e.Render(d1, nil); err != nil {
		t.Fatalf("Render d1: %v", err)
	}
	b1, _ := e.Shape("b")
	idB := b1.ID()

	res, err := e.Render(d2, nil)
	if err != nil {
		t.Fatalf("Render d2: %v", err)
	}
	if !sameSet(res.Entered, []string{"c"}) || !sameSet(res.Updated, []string{"b"}) || !sameSet(res.Exited, []string{"a"}) {
		t.Fatalf("result = %+v", res)
	}
	if _, ok := e.Shape("a"); ok {
		t.Error("exited shape a still present")
	}

	c, _ := e.Shape("c")
	if v, _ := c.Value("cx", clk.now()); v.Num != 100 {
		t.Errorf("entered c cx = %v, want 100 immediately", v.Num)
	}

	b2, _ := e.Shape("b")
	if b2.ID() != idB {
		t.Errorf("shape b recreated: id %d -> %d", idB, b2.ID())
	}
	if v, _ := b2.Value("cx", clk.now()); v.Num != 250 {
		t.Errorf("b cx at transition start = %v, want 250", v.Num)
	}
	clk.advance(DefaultDuration / 2)
	if v, _ := b2.Value("cx", clk.now()); v.Num != 375 {
		t.Errorf("b cx at midpoint = %v, want 375", v.Num)
	}
	if !e.Animating(clk.now()) {
		t.Error("engine should be animating mid-transition")
	}
	clk.advance(DefaultDuration)
	if v, _ := b2.Value("cx", clk.now()); v.Num != 500 {
		t.Errorf("b cx after transition = %v, want 500", v.Num)
	}
	if e.Tick(clk.now()) {
		t.Error("Tick should report no running transitions")
	}
}

func TestRender_RetargetMidTransition(t *testing.T) {
	e, clk, _ := newTestEngine(t)
	if _, err := e.Render([]point{{id: "a", x: 0}}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Render([]point{{id: "a", x: 100}}, nil); err != nil {
		t.Fatal(err)
	}
	clk.advance(DefaultDuration / 2)
	s, _ := e.Shape("a")
	mid, _ := s.Value("cx", clk.now())

	if _, err := e.Render([]point{{id: "a", x: 0}}, nil); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Value("cx", clk.now()); v.Num != mid.Num {
		t.Errorf("retarget jumped from %v to %v", mid.Num, v.Num)
	}
	clk.advance(DefaultDuration)
	if v, _ := s.Value("cx", clk.now()); v.Num != 0 {
		t.Errorf("final cx = %v, want 0 (last writer wins)", v.Num)
	}
}

func TestRender_ZeroDurationAppliesImmediately(t *testing.T) {
	e, clk, _ := newTestEngine(t)
	if _, err := e.Render([]point{{id: "a", x: 0}}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Render([]point{{id: "a", x: 100}}, nil, WithRenderDuration(0)); err != nil {
		t.Fatal(err)
	}
	s, _ := e.Shape("a")
	if v, _ := s.Value("cx", clk.now()); v.Num != 500 {
		t.Errorf("cx = %v, want 500", v.Num)
	}
	if e.Animating(clk.now()) {
		t.Error("no transition expected")
	}
}

func TestRender_EmptyVisibleSetRemovesAll(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if _, err := e.Render([]point{{id: "a"}, {id: "b"}}, nil); err != nil {
		t.Fatal(err)
	}
	res, err := e.Render(nil, nil)
	if err != nil {
		t.Fatalf("Render(nil): %v", err)
	}
	if e.Len() != 0 || len(res.Exited) != 2 {
		t.Errorf("Len = %d, result = %+v", e.Len(), res)
	}
	if res, _ := e.Render(nil, nil); res.Ops() != 0 {
		t.Errorf("empty render twice: %+v", res)
	}
}

func TestRender_DuplicateKeyRejected(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCollector("wxvis", reg)
	e, _, _ := newTestEngine(t, WithMetrics(m))
	if _, err := e.Render([]point{{id: "a", x: 1}}, nil); err != nil {
		t.Fatal(err)
	}

	_, err := e.Render([]point{{id: "b"}, {id: "c"}, {id: "b"}}, nil)
	var dk *DuplicateKeyError
	if !errors.As(err, &dk) || !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("err = %v, want DuplicateKeyError", err)
	}
	if dk.Key != "b" || dk.First != 0 || dk.Second != 2 {
		t.Errorf("DuplicateKeyError = %+v", dk)
	}
	if !sameSet(keysOf(e), []string{"a"}) {
		t.Errorf("rejected render mutated shapes: %v", keysOf(e))
	}
	if got := testutil.ToFloat64(m.RenderRejected.WithLabelValues("duplicate_key")); got != 1 {
		t.Errorf("render_rejected_total = %v, want 1", got)
	}
}

func TestRecolorForWindow(t *testing.T) {
	var notified [][2]float64
	e, _, color := newTestEngine(t, WithDomainListener(func(lo, hi float64) {
		notified = append(notified, [2]float64{lo, hi})
	}))
	var ds []point
	for i := 1; i <= 10; i++ {
		ds = append(ds, point{id: string(rune('a' + i)), temp: float64(i * 10), valid: true})
	}
	ds = append(ds, point{id: "null", temp: math.NaN(), valid: true})
	temp := func(p point) (float64, bool) { return p.temp, !math.IsNaN(p.temp) }

	lo, hi, changed, err := e.RecolorForWindow(ds, nil, temp)
	if err != nil {
		t.Fatal(err)
	}
	if !changed || math.Abs(lo-14.5) > 1e-9 || math.Abs(hi-95.5) > 1e-9 {
		t.Errorf("domain = [%v %v] changed=%v, want [14.5 95.5]", lo, hi, changed)
	}
	if color.Domain() != [2]float64{lo, hi} {
		t.Errorf("scale domain = %v", color.Domain())
	}
	if len(notified) != 1 {
		t.Errorf("listener calls = %d, want 1", len(notified))
	}

	// Same window: no change, no notification.
	if _, _, changed, _ := e.RecolorForWindow(ds, nil, temp); changed {
		t.Error("unchanged window reported a change")
	}

	// Empty window keeps the previous domain.
	none := func(point) bool { return false }
	lo2, hi2, changed, _ := e.RecolorForWindow(ds, none, temp)
	if changed || lo2 != lo || hi2 != hi {
		t.Errorf("empty window domain = [%v %v] changed=%v", lo2, hi2, changed)
	}

	// Single value collapses the domain onto it.
	one := func(p point) bool { return p.temp == 30 }
	lo3, hi3, _, _ := e.RecolorForWindow(ds, one, temp)
	if lo3 != 30 || hi3 != 30 {
		t.Errorf("single value domain = [%v %v], want [30 30]", lo3, hi3)
	}
}

func TestRecolorForWindow_NonFinite(t *testing.T) {
	tests := []struct {
		name    string
		temps   []float64
		changed bool
		want    [2]float64
	}{
		{"neg inf dropped", []float64{math.Inf(-1), 5}, true, [2]float64{5, 5}},
		{"pos inf dropped", []float64{10, math.Inf(1), 20}, true, [2]float64{10.5, 19.5}},
		{"nan dropped", []float64{math.NaN(), 0, 10}, true, [2]float64{0.5, 9.5}},
		{"nothing finite", []float64{math.Inf(1), math.NaN()}, false, [2]float64{-20, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, color := newTestEngine(t)
			color.SetDomain(-20, 40)
			var ds []point
			for i, v := range tt.temps {
				ds = append(ds, point{id: string(rune('a' + i)), temp: v})
			}
			raw := func(p point) (float64, bool) { return p.temp, true }
			lo, hi, changed, err := e.RecolorForWindow(ds, nil, raw)
			if err != nil {
				t.Fatal(err)
			}
			if changed != tt.changed || math.Abs(lo-tt.want[0]) > 1e-9 || math.Abs(hi-tt.want[1]) > 1e-9 {
				t.Errorf("domain = [%v %v] changed=%v, want %v changed=%v", lo, hi, changed, tt.want, tt.changed)
			}
			if _, err := e.Render(ds, nil); err != nil {
				t.Fatalf("render: %v", err)
			}
			for _, s := range e.Shapes() {
				if _, ok := s.Value("fill", e.Now()); !ok {
					t.Errorf("shape %s has no fill", s.Key())
				}
			}
		})
	}
}

func TestRecolorForWindow_NoColorScale(t *testing.T) {
	e, err := New(Config[point]{
		Identity: func(p point) string { return p.id },
		Attrs:    []Attr[point]{NumAttr("cx", func(p point) float64 { return p.x })},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := e.RecolorForWindow(nil, nil, nil); !errors.Is(err, ErrNoColorScale) {
		t.Errorf("err = %v, want ErrNoColorScale", err)
	}
}

func TestRender_RecolorUpdatesFill(t *testing.T) {
	e, clk, color := newTestEngine(t)
	ds := []point{{id: "a", temp: 0}, {id: "b", temp: 20}}
	if _, err := e.Render(ds, nil); err != nil {
		t.Fatal(err)
	}
	a, _ := e.Shape("a")
	before, _ := a.Target("fill")

	color.SetDomain(0, 20)
	res, err := e.Render(ds, nil, WithRenderDuration(0))
	if err != nil {
		t.Fatal(err)
	}
	if !sameSet(res.Updated, []string{"a", "b"}) {
		t.Errorf("updated = %v, want both", res.Updated)
	}
	after, _ := a.Value("fill", clk.now())
	if after.Color == before.Color || after.Color != scale.RdYlBu(0) {
		t.Errorf("fill not recolored: before %+v after %+v", before.Color, after.Color)
	}
}

func TestNearest(t *testing.T) {
	e, clk, _ := newTestEngine(t)
	ds := []point{{id: "a", x: 0, y: 100}, {id: "b", x: 10, y: 100}}
	if _, err := e.Render(ds, nil); err != nil {
		t.Fatal(err)
	}
	s, ok := e.Nearest("cx", "cy", 45, 0, 10, clk.now())
	if !ok || s.Key() != "b" {
		t.Errorf("Nearest = %v, %v; want b", s, ok)
	}
	if _, ok := e.Nearest("cx", "cy", 300, 300, 10, clk.now()); ok {
		t.Error("Nearest should miss beyond maxDist")
	}
}
