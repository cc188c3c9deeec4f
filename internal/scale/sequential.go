package scale

import (
	"math"

	"github.com/gogpu/gg"
)

// Unknown is returned for values that cannot be placed on a color scale.
var Unknown = gg.RGB(0.6, 0.6, 0.6)

// Sequential maps a numeric domain onto an interpolated color ramp. Values
// outside the domain clamp to the ramp ends.
type Sequential struct {
	domain [2]float64
	interp Interpolator
}

func NewSequential(domain [2]float64, interp Interpolator) *Sequential {
	return &Sequential{domain: domain, interp: interp}
}

func (s *Sequential) Validate() error {
	if s.interp == nil {
		return &ConfigError{Scale: "sequential", Reason: "no interpolator"}
	}
	if !finite(s.domain[0], s.domain[1]) {
		return &ConfigError{Scale: "sequential", Reason: "non-finite domain"}
	}
	return nil
}

func (s *Sequential) Domain() [2]float64       { return s.domain }
func (s *Sequential) SetDomain(lo, hi float64) { s.domain = [2]float64{lo, hi} }

// Interpolator exposes the ramp, for legends.
func (s *Sequential) Interpolator() Interpolator { return s.interp }

func (s *Sequential) Map(v float64) gg.RGBA {
	if math.IsNaN(v) {
		return Unknown
	}
	return s.interp(clamp01(normalize(s.domain[0], s.domain[1], v)))
}
