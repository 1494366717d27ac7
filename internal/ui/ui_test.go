package ui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stigoleg/keepawayk/internal/action"
	"github.com/stigoleg/keepawayk/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu       sync.Mutex
	running  bool
	enabled  map[action.Category]bool
	interval time.Duration
	startFor time.Duration
	stats    scheduler.Stats
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{enabled: action.AllEnabled(), interval: 5 * time.Second}
}

func (f *fakeEngine) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
}

func (f *fakeEngine) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	f.startFor = 0
}

func (f *fakeEngine) Toggle() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = !f.running
}

func (f *fakeEngine) StartFor(d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	f.startFor = d
	return nil
}

func (f *fakeEngine) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeEngine) SetEnabled(c action.Category, on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled[c] = on
}

func (f *fakeEngine) Enabled() map[action.Category]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[action.Category]bool{}
	for c, on := range f.enabled {
		if on {
			out[c] = true
		}
	}
	return out
}

func (f *fakeEngine) SetInterval(d time.Duration) error {
	if d <= 0 {
		return &scheduler.ConfigurationError{Setting: "interval", Value: d.String(), Err: scheduler.ErrInvalidInterval}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interval = d
	return nil
}

func (f *fakeEngine) Interval() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interval
}

func (f *fakeEngine) TimeRemaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startFor
}

func (f *fakeEngine) Stats() scheduler.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = Update(msg, m)
		// engine commands run inline; anything slower is dropped
		if cmd != nil {
			if out, ok := runCmd(cmd).(engineDoneMsg); ok {
				m, _ = Update(out, m)
			}
		}
	}
	return m
}

func runCmd(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel(newFakeEngine(), Options{Backend: "dry-run", Hotkey: "Ctrl+Y"})
	assert.Equal(t, stateMain, m.State)
	assert.Zero(t, m.Selected)

	view := View(m)
	for _, c := range action.All() {
		assert.Contains(t, view, "[x] "+c.Label())
	}
	assert.Contains(t, view, "○ Stopped")
	assert.Contains(t, view, "Interval: 5s")
	assert.Contains(t, view, "backend: dry-run")
	assert.Contains(t, view, "hotkey: Ctrl+Y")
}

func TestCheckboxTogglesCategory(t *testing.T) {
	e := newFakeEngine()
	m := NewModel(e, Options{})

	m = send(t, m, keyEnter)
	assert.False(t, e.Enabled()[action.PointerMove])
	assert.Contains(t, View(m), "[ ] Mouse movements")

	m = send(t, m, keyDown, keyDown, keyDown, keyRunes(" "))
	assert.Equal(t, 3, m.Selected)
	assert.Equal(t, map[action.Category]bool{action.LeftClick: true, action.RightClick: true}, e.Enabled())
}

func TestNavigationBounds(t *testing.T) {
	m := NewModel(newFakeEngine(), Options{})
	m = send(t, m, keyUp)
	assert.Zero(t, m.Selected)
	for i := 0; i < 20; i++ {
		m = send(t, m, keyDown)
	}
	assert.Equal(t, rowCount-1, m.Selected)
}

func TestToggleKeyStartsAndStops(t *testing.T) {
	e := newFakeEngine()
	m := NewModel(e, Options{})

	m = send(t, m, keyRunes("t"))
	assert.True(t, e.IsRunning())
	assert.Contains(t, View(m), "● Running")
	assert.Contains(t, View(m), "Stop")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.False(t, e.IsRunning())
	assert.Contains(t, View(m), "○ Stopped")
}

func TestStartStopRow(t *testing.T) {
	e := newFakeEngine()
	m := NewModel(e, Options{})
	m.Selected = rowStartStop
	send(t, m, keyEnter)
	assert.True(t, e.IsRunning())
}

func TestIntervalInput(t *testing.T) {
	e := newFakeEngine()
	m := NewModel(e, Options{})
	m.Selected = rowInterval

	m = send(t, m, keyEnter)
	require.Equal(t, stateIntervalInput, m.State)
	assert.Equal(t, "5", m.Input)

	m = send(t, m, keyBack, keyRunes("2.5"), keyRunes("x"), keyEnter)
	assert.Equal(t, stateMain, m.State)
	assert.Equal(t, 2500*time.Millisecond, e.Interval())
	assert.Contains(t, View(m), "Interval: 2.5s")
}

func TestIntervalInputRejectsNonPositive(t *testing.T) {
	e := newFakeEngine()
	m := NewModel(e, Options{})
	m.Selected = rowInterval

	m = send(t, m, keyEnter, keyBack, keyRunes("0"), keyEnter)
	assert.Equal(t, stateIntervalInput, m.State)
	assert.Contains(t, m.ErrorMessage, "interval must be positive")
	assert.Equal(t, 5*time.Second, e.Interval())

	m = send(t, m, keyEsc)
	assert.Equal(t, stateMain, m.State)
	assert.Empty(t, m.ErrorMessage)
}

func TestTimedRun(t *testing.T) {
	e := newFakeEngine()
	m := NewModel(e, Options{})
	m.Selected = rowTimed

	m = send(t, m, keyEnter)
	require.Equal(t, stateDurationInput, m.State)

	m = send(t, m, keyEnter)
	assert.Equal(t, "Please enter a value", m.ErrorMessage)

	m = send(t, m, keyRunes("1h30m"), keyEnter)
	assert.Equal(t, stateMain, m.State)
	assert.True(t, e.IsRunning())
	assert.Equal(t, 90*time.Minute, e.startFor)
	assert.Contains(t, View(m), "1:30:00 remaining")
}

func TestEngineErrorShown(t *testing.T) {
	m := NewModel(newFakeEngine(), Options{})
	m, _ = Update(engineDoneMsg{err: errors.New("no injector")}, m)
	assert.Contains(t, View(m), "no injector")
}

func TestTickRefreshesSnapshot(t *testing.T) {
	e := newFakeEngine()
	m := NewModel(e, Options{})
	e.Start()
	e.mu.Lock()
	e.stats = scheduler.Stats{Actions: 7, Skipped: 1, LastCategory: action.KeyPress, LastAt: time.Now()}
	e.mu.Unlock()

	m, cmd := Update(tickMsg(time.Now()), m)
	assert.NotNil(t, cmd, "ticking continues")
	view := View(m)
	assert.Contains(t, view, "● Running")
	assert.Contains(t, view, "actions 7")
	assert.Contains(t, view, "last: key")
}

func TestHelpAndQuit(t *testing.T) {
	m := NewModel(newFakeEngine(), Options{})
	m = send(t, m, keyRunes("?"))
	assert.True(t, strings.Contains(View(m), "KeepAwayk Help"))
	m = send(t, m, keyRunes("h"))
	assert.False(t, m.ShowHelp)

	_, cmd := Update(keyRunes("q"), m)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0:05", formatRemaining(5*time.Second))
	assert.Equal(t, "12:34", formatRemaining(12*time.Minute+34*time.Second))
	assert.Equal(t, "2:00:00", formatRemaining(2*time.Hour))
}
