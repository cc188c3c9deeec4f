package scale

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinear_MapInvert(t *testing.T) {
	x := NewLinear([2]float64{0, 100}, [2]float64{0, 500})
	y := NewLinear([2]float64{0, 100}, [2]float64{320, 0})

	tests := []struct {
		name string
		s    *Linear
		in   float64
		want float64
	}{
		{"x origin", x, 0, 0},
		{"x mid", x, 50, 250},
		{"x end", x, 100, 500},
		{"x beyond", x, 120, 600},
		{"y inverted origin", y, 0, 320},
		{"y inverted end", y, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Map(tt.in); !approx(got, tt.want) {
				t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got := tt.s.Invert(tt.want); !approx(got, tt.in) {
				t.Errorf("Invert(%v) = %v, want %v", tt.want, got, tt.in)
			}
		})
	}

	if got := NewLinear([2]float64{0, 100}, [2]float64{0, 500}).WithClamp(true).Map(120); got != 500 {
		t.Errorf("clamped Map(120) = %v, want 500", got)
	}
	if got := NewLinear([2]float64{5, 5}, [2]float64{0, 10}).Map(5); got != 5 {
		t.Errorf("degenerate domain Map = %v, want range midpoint 5", got)
	}
}

func TestLinear_Nice(t *testing.T) {
	l := NewLinear([2]float64{0.5, 97.3}, [2]float64{0, 1})
	l.Nice(10)
	if d := l.Domain(); d != [2]float64{0, 100} {
		t.Errorf("Nice domain = %v, want [0 100]", d)
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		count       int
		want        []float64
	}{
		{"decades", 0, 100, 10, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{"fractional", 0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{"negative span", -20, 40, 6, []float64{-20, -10, 0, 10, 20, 30, 40}},
		{"reversed", 10, 0, 2, []float64{10, 5, 0}},
		{"single", 3, 3, 5, []float64{3}},
		{"zero count", 0, 10, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ticks(tt.start, tt.stop, tt.count)
			if len(got) != len(tt.want) {
				t.Fatalf("Ticks = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !approx(got[i], tt.want[i]) {
					t.Fatalf("Ticks = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestQuantile_KnownValues(t *testing.T) {
	vals := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	d, ok := PercentileDomain(vals, 0.05, 0.95)
	if !ok {
		t.Fatal("PercentileDomain reported no values")
	}
	// i = 9*0.05 = 0.45 -> 10 + 0.45*10; i = 9*0.95 = 8.55 -> 90 + 0.55*10
	if !approx(d[0], 14.5) || !approx(d[1], 95.5) {
		t.Errorf("domain = %v, want [14.5 95.5]", d)
	}
	if got := Quantile([]float64{7}, 0.95); got != 7 {
		t.Errorf("single element quantile = %v, want 7", got)
	}
	if _, ok := PercentileDomain([]float64{math.NaN()}, 0.05, 0.95); ok {
		t.Error("PercentileDomain of only NaN should report !ok")
	}
}

func TestPercentileDomain_SkipsInfinities(t *testing.T) {
	d, ok := PercentileDomain([]float64{math.Inf(-1), 5, math.Inf(1)}, 0.05, 0.95)
	if !ok || d != [2]float64{5, 5} {
		t.Errorf("domain = %v ok=%v, want [5 5]", d, ok)
	}
	if _, ok := PercentileDomain([]float64{math.Inf(-1), math.Inf(1)}, 0.05, 0.95); ok {
		t.Error("PercentileDomain of only infinities should report !ok")
	}
}

func TestInterpolator_NaN(t *testing.T) {
	for name, interp := range map[string]Interpolator{"rdylbu": RdYlBu, "viridis": Viridis} {
		if got := interp(math.NaN()); got != Unknown {
			t.Errorf("%s(NaN) = %v, want Unknown", name, got)
		}
	}
	s := NewSequential([2]float64{math.Inf(-1), math.Inf(1)}, RdYlBu)
	if got := s.Map(5); got != Unknown {
		t.Errorf("Map over an infinite domain = %v, want Unknown", got)
	}
}

func TestPercentileDomain_DoesNotReorderInput(t *testing.T) {
	vals := []float64{3, 1, 2}
	PercentileDomain(vals, 0.05, 0.95)
	if vals[0] != 3 || vals[1] != 1 || vals[2] != 2 {
		t.Errorf("input reordered: %v", vals)
	}
}

func TestSequential_Map(t *testing.T) {
	s := NewSequential([2]float64{-10, 30}, RdYlBu)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	cold, hot := s.Map(-10), s.Map(30)
	if !(cold.B > cold.R) {
		t.Errorf("low end should be blue, got %+v", cold)
	}
	if !(hot.R > hot.B) {
		t.Errorf("high end should be red, got %+v", hot)
	}
	if s.Map(-50) != cold || s.Map(99) != hot {
		t.Error("out-of-domain values should clamp to ramp ends")
	}
	if s.Map(math.NaN()) != Unknown {
		t.Error("NaN should map to Unknown")
	}
	s.SetDomain(5, 5)
	if got, want := s.Map(100), RdYlBu(0.5); got != want {
		t.Errorf("degenerate domain Map = %+v, want midpoint %+v", got, want)
	}
}

func TestValidate_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		s    Scale
		ok   bool
	}{
		{"linear ok", NewLinear([2]float64{0, 1}, [2]float64{0, 1}), true},
		{"linear nan", NewLinear([2]float64{math.NaN(), 1}, [2]float64{0, 1}), false},
		{"sequential no interp", NewSequential([2]float64{0, 1}, nil), false},
		{"ordinal mismatch", NewOrdinal([]string{"a", "b"}, []gg.RGBA{gg.Black}), false},
		{"ordinal ok", NewOrdinal([]string{"a"}, []gg.RGBA{gg.Black}), true},
		{"category10", Category10(), true},
		{"albers ok", NewAlbers(ContiguousUS), true},
		{"albers empty clip", NewAlbers(Bounds{MinLat: 1, MaxLat: 1, MinLon: 0, MaxLon: 1}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				var ce *ConfigError
				if !errors.As(err, &ce) {
					t.Fatalf("Validate() = %v, want *ConfigError", err)
				}
			}
		})
	}
}

func TestOrdinal_Lookup(t *testing.T) {
	o := Category10()
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"blue", "#1f77b4", true},
		{"red", "#d62728", true},
		{"cyan", "#17becf", true},
		{"Blue", "", false},
		{"teal", "", false},
	}
	for _, tt := range tests {
		c, ok := o.Lookup(tt.key)
		if ok != tt.ok {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			continue
		}
		if !ok {
			if c != Unknown || o.Map(tt.key) != Unknown {
				t.Errorf("Lookup(%q) = %v, want Unknown", tt.key, c)
			}
			continue
		}
		if Hex(c) != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.key, Hex(c), tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	red, err := ParseColor("red")
	if err != nil || red != gg.RGB(1, 0, 0) {
		t.Errorf("ParseColor(red) = %+v, %v", red, err)
	}
	c, err := ParseColor("#0000ff")
	if err != nil || Hex(c) != "#0000ff" {
		t.Errorf("ParseColor(#0000ff) = %+v, %v", c, err)
	}
	if _, err := ParseColor("notacolor"); err == nil {
		t.Error("expected error for unknown color name")
	}
}

func TestAlbers_ProjectAndClip(t *testing.T) {
	p := NewAlbers(ContiguousUS)
	p.FitExtent(0, 0, 960, 600)

	x, y, ok := p.Project(-100, 45)
	if !ok {
		t.Fatal("(-100, 45) should project")
	}
	if x < 0 || x > 960 || y < 0 || y > 600 {
		t.Errorf("projected (%v, %v) outside extent", x, y)
	}
	lon, lat := p.Invert(x, y)
	if math.Abs(lon+100) > 1e-6 || math.Abs(lat-45) > 1e-6 {
		t.Errorf("Invert = (%v, %v), want (-100, 45)", lon, lat)
	}
	if _, _, ok := p.Project(-147.7, 64.2); ok {
		t.Error("Alaska point should have no pixel position")
	}

	// North is up and east is right.
	_, yn, _ := p.Project(-100, 48)
	_, ys, _ := p.Project(-100, 30)
	xw, _, _ := p.Project(-120, 40)
	xe, _, _ := p.Project(-75, 40)
	if !(yn < ys) || !(xw < xe) {
		t.Errorf("orientation wrong: yn=%v ys=%v xw=%v xe=%v", yn, ys, xw, xe)
	}
}

func TestZoom_ScaleByClamps(t *testing.T) {
	z := Identity()
	for i := 0; i < 50; i++ {
		z = z.ScaleBy(1.5, 100, 100)
	}
	if z.K != MaxZoom {
		t.Errorf("K = %v, want %v", z.K, MaxZoom)
	}
	x, y := z.Apply(100, 100)
	if !approx(x, 100) || !approx(y, 100) {
		t.Errorf("anchor moved to (%v, %v)", x, y)
	}
	for i := 0; i < 50; i++ {
		z = z.ScaleBy(0.5, 0, 0)
	}
	if z.K != MinZoom {
		t.Errorf("K = %v, want %v", z.K, MinZoom)
	}
}
