package scale

import (
	"math"
	"sort"
)

// Quantile returns the p-quantile of an ascending slice using linear
// interpolation between order statistics: i = (n-1)p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	if p <= 0 || n < 2 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	i := float64(n-1) * p
	i0 := math.Floor(i)
	v0 := sorted[int(i0)]
	v1 := sorted[int(i0)+1]
	return v0 + (v1-v0)*(i-i0)
}

// PercentileDomain returns [Quantile(lo), Quantile(hi)] of values, ignoring
// NaNs and infinities. ok is false when no usable value remains. values is not modified.
func PercentileDomain(values []float64, lo, hi float64) (d [2]float64, ok bool) {
	vs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			vs = append(vs, v)
		}
	}
	if len(vs) == 0 {
		return d, false
	}
	sort.Float64s(vs)
	return [2]float64{Quantile(vs, lo), Quantile(vs, hi)}, true
}
