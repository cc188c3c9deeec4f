package scale

import "math"

// Linear maps a continuous numeric domain onto a continuous numeric range.
type Linear struct {
	domain [2]float64
	rng    [2]float64
	clamp  bool
}

// NewLinear returns a linear scale. The scale is not validated here; callers
// (the render engine) validate at configuration time.
func NewLinear(domain, rng [2]float64) *Linear {
	return &Linear{domain: domain, rng: rng}
}

// WithClamp makes Map clamp its output to the range.
func (l *Linear) WithClamp(on bool) *Linear {
	l.clamp = on
	return l
}

func (l *Linear) Validate() error {
	if !finite(l.domain[0], l.domain[1]) {
		return &ConfigError{Scale: "linear", Reason: "non-finite domain"}
	}
	if !finite(l.rng[0], l.rng[1]) {
		return &ConfigError{Scale: "linear", Reason: "non-finite range"}
	}
	return nil
}

func (l *Linear) Domain() [2]float64 { return l.domain }
func (l *Linear) Range() [2]float64  { return l.rng }

func (l *Linear) SetDomain(lo, hi float64) { l.domain = [2]float64{lo, hi} }

// Map converts a domain value into the range.
func (l *Linear) Map(v float64) float64 {
	t := normalize(l.domain[0], l.domain[1], v)
	if l.clamp {
		t = clamp01(t)
	}
	return l.rng[0] + t*(l.rng[1]-l.rng[0])
}

// Invert converts a range value back into the domain.
func (l *Linear) Invert(v float64) float64 {
	t := normalize(l.rng[0], l.rng[1], v)
	if l.clamp {
		t = clamp01(t)
	}
	return l.domain[0] + t*(l.domain[1]-l.domain[0])
}

// Ticks returns roughly count human-friendly values spanning the domain.
func (l *Linear) Ticks(count int) []float64 {
	return Ticks(l.domain[0], l.domain[1], count)
}

// Nice extends the domain so both ends land on round tick values.
func (l *Linear) Nice(count int) {
	d0, d1 := l.domain[0], l.domain[1]
	reversed := d1 < d0
	if reversed {
		d0, d1 = d1, d0
	}
	prestep := 0.0
	for i := 0; i < 10; i++ {
		step := tickIncrement(d0, d1, float64(count))
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			d0 = math.Floor(d0/step) * step
			d1 = math.Ceil(d1/step) * step
		case step < 0:
			d0 = math.Ceil(d0*step) / step
			d1 = math.Floor(d1*step) / step
		default:
			i = 10
		}
		prestep = step
	}
	if reversed {
		d0, d1 = d1, d0
	}
	l.domain = [2]float64{d0, d1}
}
