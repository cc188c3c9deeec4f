package scale

import "math"

// ContiguousUS is the clip box of the lower 48 states in degrees.
var ContiguousUS = Bounds{MinLat: 24.52, MaxLat: 49.38, MinLon: -124.78, MaxLon: -66.95}

// Bounds is a lat/lon box.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

func (b Bounds) Contains(lon, lat float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Albers is a conic equal-area projection with standard parallels at 29.5°N
// and 45.5°N rotated to 96°W. Points outside its clip bounds have no pixel
// position.
type Albers struct {
	n, c, r0 float64
	rotate   float64 // degrees added to longitude
	clip     Bounds

	k      float64
	tx, ty float64
}

// NewAlbers returns a projection clipped to clip, with unit scale and no
// translation. Call FitExtent before use.
func NewAlbers(clip Bounds) *Albers {
	phi0 := 29.5 * math.Pi / 180
	phi1 := 45.5 * math.Pi / 180
	sy0 := math.Sin(phi0)
	n := (sy0 + math.Sin(phi1)) / 2
	c := 1 + sy0*(2*n-sy0)
	return &Albers{n: n, c: c, r0: math.Sqrt(c) / n, rotate: 96, clip: clip, k: 1}
}

func (a *Albers) Validate() error {
	b := a.clip
	if !finite(b.MinLat, b.MaxLat, b.MinLon, b.MaxLon, a.k, a.tx, a.ty) {
		return &ConfigError{Scale: "albers", Reason: "non-finite parameters"}
	}
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return &ConfigError{Scale: "albers", Reason: "empty clip bounds"}
	}
	if a.k <= 0 {
		return &ConfigError{Scale: "albers", Reason: "non-positive scale"}
	}
	return nil
}

func (a *Albers) Clip() Bounds { return a.clip }

func (a *Albers) raw(lon, lat float64) (float64, float64) {
	lambda := (lon + a.rotate) * math.Pi / 180
	phi := lat * math.Pi / 180
	r := math.Sqrt(a.c-2*a.n*math.Sin(phi)) / a.n
	x := lambda * a.n
	return r * math.Sin(x), a.r0 - r*math.Cos(x)
}

func (a *Albers) rawInvert(x, y float64) (float64, float64) {
	r0y := a.r0 - y
	l := math.Atan2(x, math.Abs(r0y)) * sign(r0y)
	if r0y*a.n < 0 {
		l -= math.Pi * sign(x) * sign(r0y)
	}
	lambda := l / a.n
	phi := math.Asin(clampUnit((a.c - (x*x+r0y*r0y)*a.n*a.n) / (2 * a.n)))
	return lambda*180/math.Pi - a.rotate, phi * 180 / math.Pi
}

// Project maps lon/lat to pixels. ok is false outside the clip bounds.
func (a *Albers) Project(lon, lat float64) (x, y float64, ok bool) {
	if !finite(lon, lat) || !a.clip.Contains(lon, lat) {
		return 0, 0, false
	}
	rx, ry := a.raw(lon, lat)
	return a.tx + a.k*rx, a.ty - a.k*ry, true
}

// Invert maps pixels back to lon/lat.
func (a *Albers) Invert(x, y float64) (lon, lat float64) {
	return a.rawInvert((x-a.tx)/a.k, (a.ty-y)/a.k)
}

// FitExtent scales and translates the projection so the clip bounds fill
// the pixel box [x0,x1]×[y0,y1] while keeping the aspect ratio.
func (a *Albers) FitExtent(x0, y0, x1, y1 float64) {
	const samples = 64
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(lon, lat float64) {
		rx, ry := a.raw(lon, lat)
		ry = -ry
		minX, maxX = math.Min(minX, rx), math.Max(maxX, rx)
		minY, maxY = math.Min(minY, ry), math.Max(maxY, ry)
	}
	b := a.clip
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		lon := b.MinLon + t*(b.MaxLon-b.MinLon)
		lat := b.MinLat + t*(b.MaxLat-b.MinLat)
		add(lon, b.MinLat)
		add(lon, b.MaxLat)
		add(b.MinLon, lat)
		add(b.MaxLon, lat)
	}
	w, h := x1-x0, y1-y0
	dx, dy := maxX-minX, maxY-minY
	if dx <= 0 || dy <= 0 || w <= 0 || h <= 0 {
		return
	}
	a.k = math.Min(w/dx, h/dy)
	a.tx = x0 + (w-a.k*dx)/2 - a.k*minX
	a.ty = y0 + (h-a.k*dy)/2 - a.k*minY
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
