package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stigoleg/keepawayk/internal/action"
	"github.com/stigoleg/keepawayk/internal/scheduler"
)

// Engine is what the control surface drives. *scheduler.Scheduler
// implements it.
type Engine interface {
	Start()
	Stop()
	Toggle()
	StartFor(d time.Duration) error
	IsRunning() bool
	SetEnabled(c action.Category, on bool)
	Enabled() map[action.Category]bool
	SetInterval(d time.Duration) error
	Interval() time.Duration
	TimeRemaining() time.Duration
	Stats() scheduler.Stats
}

// Options carries display-only facts about the session.
type Options struct {
	Backend string
	Hotkey  string
}

// Rows of the main screen after the four category checkboxes.
const (
	rowInterval = iota + 4
	rowStartStop
	rowTimed
	rowQuit
	rowCount
)

type snapshot struct {
	running   bool
	enabled   map[action.Category]bool
	interval  time.Duration
	remaining time.Duration
	stats     scheduler.Stats
}

// Model holds the current state of the UI.
type Model struct {
	engine Engine
	opts   Options
	keys   KeyMap
	help   help.Model

	State        state
	Selected     int
	Input        string
	ErrorMessage string
	ShowHelp     bool

	snap snapshot
}

// NewModel returns the main screen bound to engine.
func NewModel(engine Engine, opts Options) Model {
	m := Model{
		engine: engine,
		opts:   opts,
		keys:   DefaultKeys(),
		help:   NewHelpModel(),
		State:  stateMain,
	}
	return m.refresh()
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return Update(msg, m)
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

func (m Model) refresh() Model {
	m.snap = snapshot{
		running:   m.engine.IsRunning(),
		enabled:   m.engine.Enabled(),
		interval:  m.engine.Interval(),
		remaining: m.engine.TimeRemaining(),
		stats:     m.engine.Stats(),
	}
	return m
}
