package dataload

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"wxvis/internal/geom"
	"wxvis/internal/metrics"
	"wxvis/internal/weather"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAsync_DeliversExactlyOnce(t *testing.T) {
	l := Loader[int]{Source: "test", Load: func(context.Context) (int, error) { return 7, nil }}
	ch := Async(context.Background(), l, Options{})
	d, ok := <-ch
	if !ok || d.Value != 7 || d.Err != nil || d.Source != "test" {
		t.Fatalf("got %+v, %v", d, ok)
	}
	if _, ok := <-ch; ok {
		t.Error("channel delivered a second value")
	}
}

func TestRun_ErrorIsCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCollector("test", reg)
	boom := errors.New("boom")
	l := Loader[[]int]{
		Source: "csv",
		Load:   func(context.Context) ([]int, error) { return nil, boom },
	}
	d := Run(context.Background(), l, Options{Metrics: m})
	if !errors.Is(d.Err, boom) {
		t.Fatalf("err = %v", d.Err)
	}
	if got := testutil.ToFloat64(m.LoadErrors.WithLabelValues("csv")); got != 1 {
		t.Errorf("load errors = %v, want 1", got)
	}

	ok := Loader[[]int]{
		Source: "csv",
		Load:   func(context.Context) ([]int, error) { return []int{1, 2, 3}, nil },
		Count:  func(v []int) int { return len(v) },
	}
	Run(context.Background(), ok, Options{Metrics: m})
	if got := testutil.ToFloat64(m.LoadRecords.WithLabelValues("csv")); got != 3 {
		t.Errorf("load records = %v, want 3", got)
	}
}

func TestStationsCSV(t *testing.T) {
	p := writeFile(t, "stations.csv", "station,state,latitude,longitude,date,TAVG,TMIN\n"+
		"USW1,CO,39.7,-104.9,20170101,-20.56,\n"+
		"USW2,AK,64.2,-149.5,20170101,1,0\n"+
		"USW3,CO,39.7,-104.9,bad,1,0\n")
	var skipped int
	d := Run(context.Background(), StationsCSV(p, geom.ContiguousUS, func(n int, _ error) { skipped = n }), Options{})
	if d.Err != nil {
		t.Fatal(d.Err)
	}
	if len(d.Value) != 1 || d.Value[0].Station != "USW1" {
		t.Fatalf("obs = %+v", d.Value)
	}
	if d.Value[0].TMIN != nil {
		t.Error("empty TMIN should be nil")
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}

	d = Run(context.Background(), StationsCSV(filepath.Join(t.TempDir(), "missing.csv"), geom.ContiguousUS, nil), Options{})
	if d.Err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPointsJSON(t *testing.T) {
	p := writeFile(t, "points.json", `{"points":[{"x":1,"y":2,"color":"blue"}]}`)
	d := Run(context.Background(), PointsJSON(p), Options{})
	if d.Err != nil || len(d.Value) != 1 || d.Value[0].ID == "" {
		t.Fatalf("got %+v, %v", d.Value, d.Err)
	}
}

func TestStatesGeoJSON(t *testing.T) {
	p := writeFile(t, "states.geojson", `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"STATE":"08","NAME":"Colorado"},
		 "geometry":{"type":"Polygon","coordinates":[[[-109,37],[-102,37],[-102,41],[-109,37]]]}}]}`)
	d := Run(context.Background(), StatesGeoJSON(p), Options{})
	if d.Err != nil || len(d.Value) != 1 {
		t.Fatalf("got %+v, %v", d.Value, d.Err)
	}
}

func TestObservationRow_TAVG(t *testing.T) {
	hi, lo, pr := 10.0, 2.0, 0.5
	date := time.Date(2017, 1, 2, 5, 0, 0, 0, time.FixedZone("x", 3600))
	o := observationRow{StationID: "S", Date: date, MaxC: &hi, MinC: &lo, PrecipCm: &pr}.toObservation()
	if v, ok := o.Value(weather.TAVG); !ok || v != 6 {
		t.Errorf("TAVG = %v, %v", v, ok)
	}
	if v, _ := o.Value(weather.PRCP); v != 5 {
		t.Errorf("PRCP = %v, want 5 mm", v)
	}
	if weather.DayIndex(weather.DefaultEpoch, o.Date) != 1 {
		t.Errorf("date = %v", o.Date)
	}

	o = observationRow{StationID: "S", Date: date, MaxC: &hi}.toObservation()
	if _, ok := o.Value(weather.TAVG); ok {
		t.Error("TAVG needs both max and min")
	}
}

func TestGridDaily(t *testing.T) {
	fill := int16(-32767)
	// two hours on day 0, one on day 1; 1x2 grid.
	fields := [][][]int16{
		{{100, fill}},
		{{300, fill}},
		{{200, 0}},
	}
	base := int64(weather.DefaultEpoch.Sub(era5Origin).Hours())
	g := grid{
		lat:    []float64{40},
		lon:    []float64{260, 261},
		hours:  []int64{base, base + 1, base + 24},
		scale:  0.01,
		offset: kelvin,
		fill:   &fill,
		slice:  func(i int) ([][]int16, error) { return fields[i], nil },
	}
	obs, err := g.daily(context.Background(), 1, geom.ContiguousUS)
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 3 {
		t.Fatalf("obs = %d, want 3", len(obs))
	}
	first := obs[0]
	if first.Longitude != -100 || first.Latitude != 40 {
		t.Errorf("position = %v,%v", first.Latitude, first.Longitude)
	}
	if weather.DayIndex(weather.DefaultEpoch, first.Date) != 0 {
		t.Errorf("date = %v", first.Date)
	}
	tavg, _ := first.Value(weather.TAVG)
	tmin, _ := first.Value(weather.TMIN)
	tmax, _ := first.Value(weather.TMAX)
	if math.Abs(tavg-2) > 1e-9 || math.Abs(tmin-1) > 1e-9 || math.Abs(tmax-3) > 1e-9 {
		t.Errorf("TAVG/TMIN/TMAX = %v/%v/%v, want 2/1/3", tavg, tmin, tmax)
	}
	// obs[0] and obs[1] are the same cell on consecutive days.
	if obs[0].Key() != obs[1].Key() {
		t.Errorf("cell key changed across days: %q, %q", obs[0].Key(), obs[1].Key())
	}
	if obs[1].Key() == obs[2].Key() {
		t.Error("two cells share a key")
	}
}
