package dataload

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"wxvis/internal/geom"
	"wxvis/internal/weather"
)

// ERA5 time is hours since 1900-01-01 UTC.
var era5Origin = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

const kelvin = 273.15

// grid is a packed 2 m temperature field, one [lat][lon] slice per hour.
type grid struct {
	lat    []float64
	lon    []float64
	hours  []int64
	scale  float64
	offset float64
	fill   *int16
	slice  func(t int) ([][]int16, error)
}

// cellDay accumulates one grid cell over one UTC day.
type cellDay struct {
	sum, min, max float64
	n             int
}

func (c *cellDay) add(v float64) {
	if c.n == 0 || v < c.min {
		c.min = v
	}
	if c.n == 0 || v > c.max {
		c.max = v
	}
	c.sum += v
	c.n++
}

// daily collapses hourly values into one synthetic station per cell per
// day, taking every step-th cell on each axis. Cells outside bb are skipped.
func (g grid) daily(ctx context.Context, step int, bb geom.BBox) ([]weather.Observation, error) {
	if step < 1 {
		step = 1
	}
	type key struct {
		day  int64
		i, j int
	}
	acc := make(map[key]*cellDay)
	var order []key
	for t, h := range g.hours {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		field, err := g.slice(t)
		if err != nil {
			return nil, fmt.Errorf("read t2m at %d: %w", t, err)
		}
		day := h / 24
		for i := 0; i < len(g.lat); i += step {
			for j := 0; j < len(g.lon); j += step {
				if !bb.Contains(lon180(g.lon[j]), g.lat[i]) {
					continue
				}
				raw := field[i][j]
				if g.fill != nil && raw == *g.fill {
					continue
				}
				k := key{day, i, j}
				c, ok := acc[k]
				if !ok {
					c = &cellDay{}
					acc[k] = c
					order = append(order, k)
				}
				c.add(float64(raw)*g.scale + g.offset - kelvin)
			}
		}
	}
	obs := make([]weather.Observation, 0, len(order))
	for _, k := range order {
		c := acc[k]
		lat, lon := g.lat[k.i], lon180(g.lon[k.j])
		o := weather.Observation{
			Station:   cellID(lat, lon),
			State:     "ERA5",
			Latitude:  lat,
			Longitude: lon,
			Date:      era5Origin.AddDate(0, 0, int(k.day)),
		}
		o.Set(weather.TAVG, c.sum/float64(c.n))
		o.Set(weather.TMIN, c.min)
		o.Set(weather.TMAX, c.max)
		obs = append(obs, o)
	}
	return obs, nil
}

func cellID(lat, lon float64) string {
	return "ERA5:" + strconv.FormatFloat(lat, 'f', 2, 64) + "," + strconv.FormatFloat(lon, 'f', 2, 64)
}

// lon180 maps a 0..360 longitude onto -180..180.
func lon180(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	return lon
}

// ERA5 loads the t2m variable of an ERA5 single-levels NetCDF file. step
// subsamples the grid.
func ERA5(path string, step int, bb geom.BBox) Loader[[]weather.Observation] {
	return Loader[[]weather.Observation]{
		Source: "era5",
		Load: func(ctx context.Context) ([]weather.Observation, error) {
			nc, err := netcdf.Open(path)
			if err != nil {
				return nil, err
			}
			defer nc.Close()
			g, err := openGrid(nc)
			if err != nil {
				return nil, err
			}
			return g.daily(ctx, step, bb)
		},
		Count: func(o []weather.Observation) int { return len(o) },
	}
}

func openGrid(nc api.Group) (grid, error) {
	var g grid
	var err error
	if g.lat, err = floats(nc, "latitude"); err != nil {
		return g, err
	}
	if g.lon, err = floats(nc, "longitude"); err != nil {
		return g, err
	}
	if g.hours, err = ints(nc, "time"); err != nil {
		return g, err
	}
	t2m, err := nc.GetVarGetter("t2m")
	if err != nil {
		return g, fmt.Errorf("t2m: %w", err)
	}
	attrs := t2m.Attributes()
	g.scale, g.offset = 1, 0
	if v, ok := attrFloat(attrs, "scale_factor"); ok {
		g.scale = v
	}
	if v, ok := attrFloat(attrs, "add_offset"); ok {
		g.offset = v
	}
	for _, name := range []string{"_FillValue", "missing_value"} {
		if v, ok := attrs.Get(name); ok {
			if f, ok := v.(int16); ok {
				g.fill = &f
				break
			}
		}
	}
	g.slice = func(t int) ([][]int16, error) {
		v, err := t2m.GetSlice(int64(t), int64(t)+1)
		if err != nil {
			return nil, err
		}
		s, ok := v.([][][]int16)
		if !ok || len(s) == 0 {
			return nil, fmt.Errorf("t2m: unexpected type %T", v)
		}
		return s[0], nil
	}
	return g, nil
}

func floats(nc api.Group, name string) ([]float64, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	switch s := v.(type) {
	case []float32:
		out := make([]float64, len(s))
		for i, x := range s {
			out[i] = float64(x)
		}
		return out, nil
	case []float64:
		return s, nil
	}
	return nil, fmt.Errorf("%s: unexpected type %T", name, v)
}

func ints(nc api.Group, name string) ([]int64, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	switch s := v.(type) {
	case []int32:
		out := make([]int64, len(s))
		for i, x := range s {
			out[i] = int64(x)
		}
		return out, nil
	case []int64:
		return s, nil
	}
	return nil, fmt.Errorf("%s: unexpected type %T", name, v)
}

func attrFloat(attrs api.AttributeMap, name string) (float64, bool) {
	v, ok := attrs.Get(name)
	if !ok {
		return 0, false
	}
	switch f := v.(type) {
	case float64:
		return f, !math.IsNaN(f)
	case float32:
		return float64(f), true
	}
	return 0, false
}
