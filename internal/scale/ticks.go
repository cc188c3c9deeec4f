package scale

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Ticks returns about count evenly spaced round values in [start, stop].
// Steps are 1, 2 or 5 times a power of ten. Fractional steps are computed
// through their reciprocal to avoid accumulating float error.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || !finite(start, stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	i1, i2, inc := tickSpec(start, stop, float64(count))
	if i2 < i1 {
		return nil
	}
	n := int(i2-i1) + 1
	ticks := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			ticks[i] = (i1 + float64(i)) / -inc
		} else {
			ticks[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func tickIncrement(start, stop, count float64) float64 {
	if !(stop > start) || count <= 0 {
		return 0
	}
	_, _, inc := tickSpec(start, stop, count)
	return inc
}
