package tui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	progress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"

	"wxvis/internal/dataload"
	"wxvis/internal/engine"
	"wxvis/internal/geom"
	"wxvis/internal/legend"
	"wxvis/internal/scale"
	"wxvis/internal/weather"
)

const (
	stationRadius = 3
	legendTitle   = "TAVG °C"
)

// Sources names where the weather mode reads from. Observations is
// required; States is optional.
type Sources struct {
	Observations dataload.Loader[[]weather.Observation]
	States       string
}

type weatherScene struct {
	layer[weather.Observation]
	opts Options
	src  Sources

	proj   *scale.Albers
	color  *scale.Sequential
	states []geom.State
	rings  [][][2]float64

	loaded   bool
	day      int
	lo, hi   int
	windowed bool
	global   [2]float64
	leg      legend.Legend
	slider   progress.Model
}

// NewWeather builds the weather map mode.
func NewWeather(src Sources, opts Options) (Model, error) {
	opts.defaults()
	interp, err := opts.Config.Interpolator()
	if err != nil {
		return Model{}, err
	}
	w, h := float64(opts.Config.Width), float64(opts.Config.Height)
	s := &weatherScene{
		opts:     opts,
		src:      src,
		proj:     scale.NewAlbers(scale.ContiguousUS),
		color:    scale.NewSequential([2]float64{-20, 40}, interp),
		windowed: true,
		slider:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	s.proj.FitExtent(0, 0, w, h)
	s.global = s.color.Domain()

	lo, hi := 0.05, 0.95
	if opts.Config.PercentileHi > opts.Config.PercentileLo {
		lo, hi = opts.Config.PercentileLo, opts.Config.PercentileHi
	}
	eng, err := engine.New(engine.Config[weather.Observation]{
		Scales:   map[string]scale.Scale{"color": s.color, "geo": s.proj},
		Identity: weather.Observation.Key,
		Attrs: []engine.Attr[weather.Observation]{
			engine.NumAttr("cx", func(o weather.Observation) float64 {
				x, _, _ := s.proj.Project(o.Longitude, o.Latitude)
				return x
			}),
			engine.NumAttr("cy", func(o weather.Observation) float64 {
				_, y, _ := s.proj.Project(o.Longitude, o.Latitude)
				return y
			}),
			engine.NumAttr("r", func(weather.Observation) float64 { return stationRadius }),
			engine.ColorAttr("fill", func(o weather.Observation) gg.RGBA {
				v, ok := o.Value(weather.TAVG)
				if !ok {
					return scale.Unknown
				}
				return s.color.Map(v)
			}),
		},
	},
		engine.WithDuration(opts.Config.Transition),
		engine.WithClock(opts.Now),
		engine.WithLogger(opts.Log.With("mode", "weather")),
		engine.WithMetrics(opts.Metrics),
		engine.WithPercentiles(lo, hi),
		engine.WithDomainListener(func(float64, float64) { s.rebuildLegend() }),
	)
	if err != nil {
		return Model{}, err
	}
	s.layer = layer[weather.Observation]{
		eng:      eng,
		describe: weather.Observation.Describe,
		columns:  []string{"station", "state", "date", "lat", "lon", "TAVG", "TMIN", "TMAX"},
		row:      observationRow,
	}
	s.setDay(0)
	s.rebuildLegend()
	return newModel(s, opts), nil
}

func observationRow(o weather.Observation) []string {
	row := []string{o.Station, o.State, o.Date.Format("2006-01-02"), fmtNum(o.Latitude), fmtNum(o.Longitude)}
	for _, f := range []weather.Field{weather.TAVG, weather.TMIN, weather.TMAX} {
		if v, ok := o.Value(f); ok {
			row = append(row, fmtNum(v))
		} else {
			row = append(row, "")
		}
	}
	return row
}

func (s *weatherScene) name() string { return "weather" }

func (s *weatherScene) loadOptions() dataload.Options {
	return dataload.Options{Log: s.opts.Log, Metrics: s.opts.Metrics}
}

func (s *weatherScene) init() tea.Cmd {
	cmds := []tea.Cmd{waitFor(dataload.Async(context.Background(), s.src.Observations, s.loadOptions()))}
	if s.src.States != "" {
		cmds = append(cmds, s.loadStates(s.src.States))
	}
	return tea.Batch(cmds...)
}

func (s *weatherScene) loadStates(path string) tea.Cmd {
	return waitFor(dataload.Async(context.Background(), dataload.StatesGeoJSON(path), s.loadOptions()))
}

func (s *weatherScene) ready() bool { return s.loaded }

// setDay moves the slider and rebuilds the visible predicate.
func (s *weatherScene) setDay(day int) {
	s.day = min(max(day, s.lo), s.hi)
	s.pred = weather.And(
		weather.HasValue(weather.TAVG),
		weather.OnDay(s.opts.Config.Epoch, s.day),
		weather.Projected(s.proj),
	)
}

func (s *weatherScene) rebuildLegend() {
	s.leg = legend.New(legendTitle, s.color, legend.DefaultStops, legend.DefaultTicks)
}

func tavg(o weather.Observation) (float64, bool) { return o.Value(weather.TAVG) }

// draw recolors for the current window when enabled, then renders.
func (s *weatherScene) draw() (engine.Result, error) {
	if s.windowed {
		if _, _, _, err := s.eng.RecolorForWindow(s.data, s.pred, tavg); err != nil {
			return engine.Result{}, fmt.Errorf("recolor failed: %w", err)
		}
	}
	res, err := s.render()
	if err != nil {
		return res, fmt.Errorf("render rejected: %w", err)
	}
	return res, nil
}

func (s *weatherScene) redraw() string {
	res, err := s.draw()
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s  %d stations  (+%d ~%d -%d)",
		weather.DateAt(s.opts.Config.Epoch, s.day).Format("2006-01-02"),
		res.Visible, len(res.Entered), len(res.Updated), len(res.Exited))
}

// globalDomain is the TAVG extent over the whole dataset.
func globalDomain(obs []weather.Observation) ([2]float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, o := range obs {
		if v, ok := o.Value(weather.TAVG); ok {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	return [2]float64{lo, hi}, lo <= hi
}

func (s *weatherScene) setGlobalDomain() {
	s.color.SetDomain(s.global[0], s.global[1])
	s.opts.Metrics.SetColorDomain(s.global[0], s.global[1])
	s.rebuildLegend()
}

func (s *weatherScene) update(msg tea.Msg) (tea.Cmd, string, bool) {
	switch msg := msg.(type) {
	case loadedMsg[[]weather.Observation]:
		if msg.done.Err != nil {
			return nil, "load failed: " + msg.done.Err.Error(), true
		}
		s.data = msg.done.Value
		s.lo, s.hi, _ = weather.DayRange(s.opts.Config.Epoch, s.data)
		if d, ok := globalDomain(s.data); ok {
			s.global = d
		}
		if !s.windowed {
			s.setGlobalDomain()
		}
		s.loaded = true
		s.setDay(s.lo)
		return nil, s.redraw(), true
	case loadedMsg[[]geom.State]:
		if msg.done.Err != nil {
			return nil, "states: " + msg.done.Err.Error(), true
		}
		s.states = msg.done.Value
		s.rings = projectStates(s.proj, s.states)
		return nil, fmt.Sprintf("loaded %d state outlines", len(s.states)), true
	case tea.KeyMsg:
		if !s.loaded {
			return nil, "", false
		}
		switch msg.String() {
		case "[", "left":
			s.setDay(s.day - 1)
			return nil, s.redraw(), true
		case "]", "right":
			s.setDay(s.day + 1)
			return nil, s.redraw(), true
		case "c":
			s.windowed = !s.windowed
			if !s.windowed {
				s.setGlobalDomain()
			}
			mode := "global"
			if s.windowed {
				mode = "windowed"
			}
			return nil, "color: " + mode + "  " + s.redraw(), true
		}
	}
	return nil, "", false
}

// projectStates converts every ring to canvas pixels. Vertices outside the
// projection clip are dropped.
func projectStates(p *scale.Albers, states []geom.State) [][][2]float64 {
	var rings [][][2]float64
	for _, st := range states {
		for _, poly := range st.Polygons {
			for _, ring := range poly {
				out := make([][2]float64, 0, len(ring))
				for _, pt := range ring {
					if x, y, ok := p.Project(pt[0], pt[1]); ok {
						out = append(out, [2]float64{x, y})
					}
				}
				if len(out) >= 3 {
					rings = append(rings, out)
				}
			}
		}
	}
	return rings
}

func (s *weatherScene) canvas() (float64, float64) {
	return float64(s.opts.Config.Width), float64(s.opts.Config.Height)
}

func (s *weatherScene) outlines() [][][2]float64 { return s.rings }

func (s *weatherScene) axes() (axes, bool) { return axes{}, false }

func (s *weatherScene) zoomable() bool { return true }

func (s *weatherScene) legend() (legend.Legend, bool) { return s.leg, true }

// footer is the date slider over the legend bar.
func (s *weatherScene) footer(width int) string {
	date := weather.DateAt(s.opts.Config.Epoch, s.day).Format("2006-01-02")
	label := fmt.Sprintf(" ◀ %s ▶ ", date)
	frac := 0.0
	if s.hi > s.lo {
		frac = float64(s.day-s.lo) / float64(s.hi-s.lo)
	}
	s.slider.Width = max(10, width-lipgloss.Width(label)-2)
	slider := label + s.slider.ViewAs(frac)

	barW := max(10, min(60, width-lipgloss.Width(legendTitle)-2))
	bar := strings.Split(s.leg.Bar(barW), "\n")
	title := dimStyle.Render(" " + legendTitle + " ")
	pad := strings.Repeat(" ", lipgloss.Width(title))
	return lipgloss.JoinVertical(lipgloss.Left, slider, title+bar[0], pad+bar[1])
}

func (s *weatherScene) help() []string {
	return []string{"[ ] ←→ day", "+/- zoom", "ctrl+←↑↓→ pan", "c color"}
}

func (s *weatherScene) open(path string) (tea.Cmd, string, bool) {
	bb := geom.ContiguousUS
	var l dataload.Loader[[]weather.Observation]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson":
		return s.loadStates(path), "loading " + filepath.Base(path) + "…", true
	case ".csv":
		l = dataload.StationsCSV(path, bb, nil)
	case ".nc":
		l = dataload.ERA5(path, s.opts.Config.ERA5Step, bb)
	default:
		return nil, "", false
	}
	s.src.Observations = l
	return waitFor(dataload.Async(context.Background(), l, s.loadOptions())), "loading " + filepath.Base(path) + "…", true
}

var _ scene = (*weatherScene)(nil)
