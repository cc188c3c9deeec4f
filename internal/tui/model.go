package tui

import (
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"wxvis/internal/config"
	"wxvis/internal/logging"
	"wxvis/internal/metrics"
	"wxvis/internal/scale"
	"wxvis/internal/weather"
)

// Options are the dependencies shared by both modes.
type Options struct {
	Config  config.Config
	Log     *slog.Logger
	Metrics *metrics.Collector
	// Now defaults to time.Now.
	Now func() time.Time
	// Rand drives the scatter mutators.
	Rand *rand.Rand
	// SnapshotDir is where "s" writes PNG files. Defaults to the working
	// directory.
	SnapshotDir string
}

func (o *Options) defaults() {
	if o.Log == nil {
		o.Log = logging.Discard()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if o.Config.Epoch.IsZero() {
		o.Config.Epoch = weather.DefaultEpoch
	}
	if o.Config.ERA5Step < 1 {
		o.Config.ERA5Step = 1
	}
	if o.Config.Width <= 0 || o.Config.Height <= 0 {
		o.Config.Width, o.Config.Height = 600, 400
	}
	if o.SnapshotDir == "" {
		o.SnapshotDir, _ = os.Getwd()
	}
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom scale.Zoom

	status    string
	statusErr bool

	sc   scene
	opts Options

	// animation frame loop is running
	ticking bool

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// hover state
	hovering   bool
	hoverCellX int
	hoverCellY int
	tooltip    string

	// records table
	showAttrs bool
	tbl       table.Model
}

func newModel(sc scene, opts Options) Model {
	m := Model{
		helpVisible: true,
		zoom:        scale.Identity(),
		status:      "loading " + sc.name() + "…",
		sc:          sc,
		opts:        opts,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

func (m Model) Init() tea.Cmd { return m.sc.init() }

// frameMsg advances running transitions.
type frameMsg time.Time

const frameInterval = time.Second / 30

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// animate starts the frame loop when a transition is running.
func (m *Model) animate() tea.Cmd {
	if m.ticking || !m.sc.animating(m.opts.Now()) {
		return nil
	}
	m.ticking = true
	return frame()
}
