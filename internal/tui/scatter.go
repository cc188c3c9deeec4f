package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"

	"wxvis/internal/dataload"
	"wxvis/internal/engine"
	"wxvis/internal/legend"
	"wxvis/internal/points"
	"wxvis/internal/scale"
)

// Scatter canvas: 600x400 less the axis margins.
const (
	scatterW      = 500
	scatterH      = 320
	scatterRadius = 5
)

type scatterScene struct {
	layer[points.Point]
	opts   Options
	x, y   *scale.Linear
	fill   *scale.Ordinal
	path   string
	loaded bool
}

// NewScatter builds the scatter mode. An empty path starts with no points.
func NewScatter(path string, opts Options) (Model, error) {
	opts.defaults()
	s := &scatterScene{
		opts: opts,
		x:    scale.NewLinear([2]float64{points.Min, points.Max}, [2]float64{0, scatterW}),
		y:    scale.NewLinear([2]float64{points.Min, points.Max}, [2]float64{scatterH, 0}),
		fill: scale.Category10(),
		path: path,
	}
	eng, err := engine.New(engine.Config[points.Point]{
		Scales:   map[string]scale.Scale{"x": s.x, "y": s.y, "fill": s.fill},
		Identity: points.Point.Key,
		Attrs: []engine.Attr[points.Point]{
			engine.NumAttr("cx", func(p points.Point) float64 { return s.x.Map(p.X) }),
			engine.NumAttr("cy", func(p points.Point) float64 { return s.y.Map(p.Y) }),
			engine.NumAttr("r", func(points.Point) float64 { return scatterRadius }),
			engine.ColorAttr("fill", s.pointColor),
		},
	},
		engine.WithDuration(opts.Config.Transition),
		engine.WithClock(opts.Now),
		engine.WithLogger(opts.Log.With("mode", "scatter")),
		engine.WithMetrics(opts.Metrics),
	)
	if err != nil {
		return Model{}, err
	}
	s.layer = layer[points.Point]{
		eng:      eng,
		describe: describePoint,
		columns:  []string{"id", "x", "y", "color"},
		row: func(p points.Point) []string {
			return []string{p.ID, fmtNum(p.X), fmtNum(p.Y), p.Color}
		},
	}
	if path == "" {
		s.loaded = true
	}
	m := newModel(s, opts)
	if s.loaded {
		m.status = "scatter ready"
	}
	return m, nil
}

// pointColor draws palette names from the categorical palette. Hex values and
// other CSS names are used as given.
func (s *scatterScene) pointColor(p points.Point) gg.RGBA {
	if c, ok := s.fill.Lookup(strings.ToLower(strings.TrimSpace(p.Color))); ok {
		return c
	}
	c, err := scale.ParseColor(p.Color)
	if err != nil {
		return scale.Unknown
	}
	return c
}

func describePoint(p points.Point) string {
	return fmt.Sprintf("%s\nx: %s\ny: %s\ncolor: %s", p.ID, fmtNum(p.X), fmtNum(p.Y), p.Color)
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func (s *scatterScene) name() string { return "scatter" }

func (s *scatterScene) init() tea.Cmd {
	if s.path == "" {
		return nil
	}
	return s.load(s.path)
}

func (s *scatterScene) load(path string) tea.Cmd {
	ch := dataload.Async(context.Background(), dataload.PointsJSON(path),
		dataload.Options{Log: s.opts.Log, Metrics: s.opts.Metrics})
	return waitFor(ch)
}

func (s *scatterScene) ready() bool { return s.loaded }

func (s *scatterScene) update(msg tea.Msg) (tea.Cmd, string, bool) {
	switch msg := msg.(type) {
	case loadedMsg[[]points.Point]:
		if msg.done.Err != nil {
			return nil, "load failed: " + msg.done.Err.Error(), true
		}
		s.data = msg.done.Value
		s.loaded = true
		return nil, s.redraw(fmt.Sprintf("loaded %d points", len(s.data))), true
	case tea.KeyMsg:
		if !s.loaded {
			return nil, "", false
		}
		switch msg.String() {
		case "a":
			s.data = points.Add(s.data, s.opts.Rand)
			return nil, s.redraw("added " + s.data[len(s.data)-1].ID), true
		case "r":
			if len(s.data) == 0 {
				return nil, "nothing to remove", true
			}
			last := s.data[len(s.data)-1].ID
			s.data = points.RemoveLast(s.data)
			return nil, s.redraw("removed " + last), true
		case "u":
			s.data = points.Jitter(s.data, s.opts.Rand)
			return nil, s.redraw(fmt.Sprintf("moved %d points", len(s.data))), true
		}
	}
	return nil, "", false
}

func (s *scatterScene) redraw(status string) string {
	res, err := s.render()
	if err != nil {
		return "render rejected: " + err.Error()
	}
	return fmt.Sprintf("%s  (+%d ~%d -%d)", status, len(res.Entered), len(res.Updated), len(res.Exited))
}

func (s *scatterScene) canvas() (float64, float64) { return scatterW, scatterH }

func (s *scatterScene) outlines() [][][2]float64 { return nil }

func (s *scatterScene) axes() (axes, bool) {
	return axes{x: s.x, y: s.y, xTitle: "Number of Students", yTitle: "Hours of Homework"}, true
}

func (s *scatterScene) zoomable() bool { return false }

func (s *scatterScene) legend() (legend.Legend, bool) { return legend.Legend{}, false }

func (s *scatterScene) footer(int) string {
	return dimStyle.Render(fmt.Sprintf(" %d points", len(s.data)))
}

func (s *scatterScene) help() []string {
	return []string{"a add", "r remove", "u update"}
}

func (s *scatterScene) open(path string) (tea.Cmd, string, bool) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, "", false
	}
	s.path = path
	return s.load(path), "loading " + filepath.Base(path) + "…", true
}

var _ scene = (*scatterScene)(nil)

