// Package scale maps domain values (numbers, categories, coordinates) onto
// range values (pixels and colors). Scales are configured once and validated
// before use; a malformed scale is a configuration error, never a render error.
package scale

import (
	"fmt"
	"math"
)

// Scale is the common contract of every scale in this package.
type Scale interface {
	// Validate reports a configuration problem such as a domain/range size
	// mismatch or a non-finite bound.
	Validate() error
}

// DomainSetter is implemented by continuous scales whose domain can be
// recomputed between renders.
type DomainSetter interface {
	Domain() [2]float64
	SetDomain(lo, hi float64)
}

// ConfigError describes an invalid scale configuration.
type ConfigError struct {
	Scale  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scale %s: %s", e.Scale, e.Reason)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// normalize returns where x sits between a and b. A degenerate interval maps
// everything to its midpoint.
func normalize(a, b, x float64) float64 {
	if b == a {
		return 0.5
	}
	return (x - a) / (b - a)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
