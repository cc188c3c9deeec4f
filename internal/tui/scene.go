package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"wxvis/internal/dataload"
	"wxvis/internal/engine"
	"wxvis/internal/legend"
	"wxvis/internal/scale"
	"wxvis/internal/snapshot"
)

// scene is one visualization mode. The model owns layout, zoom, hover and
// the shared keys; a scene owns its dataset and engine.
type scene interface {
	name() string
	init() tea.Cmd
	// update handles load results and mode keys. handled is false for
	// messages the scene does not own.
	update(msg tea.Msg) (cmd tea.Cmd, status string, handled bool)
	ready() bool
	// canvas is the virtual pixel size the engine scales map onto.
	canvas() (w, h float64)
	marks(now time.Time) []snapshot.Circle
	// outlines are closed rings in canvas pixels.
	outlines() [][][2]float64
	axes() (axes, bool)
	zoomable() bool
	animating(now time.Time) bool
	tick(now time.Time) bool
	nearest(x, y, maxDist float64, now time.Time) (string, bool)
	records() ([]string, [][]string)
	legend() (legend.Legend, bool)
	footer(width int) string
	help() []string
	// open loads a file picked from the sidebar.
	open(path string) (tea.Cmd, string, bool)
}

// axes describes the x and y axes drawn around a scatter canvas.
type axes struct {
	x, y           *scale.Linear
	xTitle, yTitle string
}

// layer binds a dataset and its visible predicate to an engine.
type layer[R any] struct {
	eng      *engine.Engine[R]
	data     []R
	pred     func(R) bool
	describe func(R) string
	columns  []string
	row      func(R) []string
}

func (l *layer[R]) render(opts ...engine.RenderOption) (engine.Result, error) {
	return l.eng.Render(l.data, l.pred, opts...)
}

func (l *layer[R]) marks(now time.Time) []snapshot.Circle {
	return snapshot.Circles(l.eng.Shapes(), now)
}

func (l *layer[R]) animating(now time.Time) bool { return l.eng.Animating(now) }

func (l *layer[R]) tick(now time.Time) bool { return l.eng.Tick(now) }

func (l *layer[R]) nearest(x, y, maxDist float64, now time.Time) (string, bool) {
	s, ok := l.eng.Nearest("cx", "cy", x, y, maxDist, now)
	if !ok {
		return "", false
	}
	return l.describe(s.Datum()), true
}

// records lists the visible records in dataset order.
func (l *layer[R]) records() ([]string, [][]string) {
	var rows [][]string
	for _, r := range l.data {
		if l.pred != nil && !l.pred(r) {
			continue
		}
		rows = append(rows, l.row(r))
	}
	return l.columns, rows
}

// loadedMsg carries one finished load to the scene that started it.
type loadedMsg[T any] struct {
	done dataload.Done[T]
}

// waitFor turns a load channel into a command.
func waitFor[T any](ch <-chan dataload.Done[T]) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg[T]{done: <-ch}
	}
}
