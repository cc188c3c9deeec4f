package engine

import (
	"math"

	"github.com/gogpu/gg"
)

// Value is one attribute value of a shape: a number or a color.
type Value struct {
	Num     float64
	Color   gg.RGBA
	IsColor bool
}

// Num returns a numeric value.
func Num(v float64) Value { return Value{Num: v} }

// Color returns a color value.
func Color(c gg.RGBA) Value { return Value{Color: c, IsColor: true} }

func (v Value) equal(o Value) bool {
	if v.IsColor != o.IsColor {
		return false
	}
	if v.IsColor {
		return v.Color == o.Color
	}
	return v.Num == o.Num || (math.IsNaN(v.Num) && math.IsNaN(o.Num))
}

func (v Value) lerp(to Value, t float64) Value {
	if v.IsColor != to.IsColor {
		return to
	}
	if v.IsColor {
		return Color(v.Color.Lerp(to.Color, t))
	}
	return Num(v.Num + (to.Num-v.Num)*t)
}

// easeCubicInOut is the default transition easing.
func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
