package scale

// Zoom scale bounds for pan/zoom gestures.
const (
	MinZoom = 1.0
	MaxZoom = 10.0
)

// Zoom is a pan/zoom transform: p' = p*K + (X, Y).
type Zoom struct {
	K, X, Y float64
}

// Identity is the untransformed view.
func Identity() Zoom { return Zoom{K: 1} }

func (z Zoom) Apply(x, y float64) (float64, float64) {
	return x*z.K + z.X, y*z.K + z.Y
}

func (z Zoom) Invert(x, y float64) (float64, float64) {
	return (x - z.X) / z.K, (y - z.Y) / z.K
}

// ScaleBy multiplies K by factor, clamped to [MinZoom, MaxZoom], keeping the
// screen point (cx, cy) fixed.
func (z Zoom) ScaleBy(factor, cx, cy float64) Zoom {
	k := z.K * factor
	if k < MinZoom {
		k = MinZoom
	}
	if k > MaxZoom {
		k = MaxZoom
	}
	px, py := z.Invert(cx, cy)
	return Zoom{K: k, X: cx - px*k, Y: cy - py*k}
}

func (z Zoom) Translate(dx, dy float64) Zoom {
	return Zoom{K: z.K, X: z.X + dx, Y: z.Y + dy}
}
