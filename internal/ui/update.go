package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stigoleg/keepawayk/internal/action"
	"github.com/stigoleg/keepawayk/internal/util"
)

const refreshInterval = 500 * time.Millisecond

type tickMsg time.Time

// engineDoneMsg reports that a blocking engine call has returned.
type engineDoneMsg struct{ err error }

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m.refresh(), tick()
	case engineDoneMsg:
		if msg.err != nil {
			m.ErrorMessage = msg.err.Error()
		}
		return m.refresh(), nil
	case tea.KeyMsg:
		if m.State == stateMain {
			return updateMain(msg, m)
		}
		return updateInput(msg, m)
	}
	return m, nil
}

func updateMain(msg tea.KeyMsg, m Model) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ToggleHelp):
		m.ShowHelp = !m.ShowHelp
	case key.Matches(msg, m.keys.Up):
		if m.Selected > 0 {
			m.Selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Selected < rowCount-1 {
			m.Selected++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.ErrorMessage = ""
		return m, m.run(m.engine.Toggle)
	case key.Matches(msg, m.keys.Select):
		return selectRow(m)
	}
	return m, nil
}

func selectRow(m Model) (Model, tea.Cmd) {
	m.ErrorMessage = ""
	switch m.Selected {
	case rowInterval:
		m.State = stateIntervalInput
		m.Input = formatSeconds(m.snap.interval)
	case rowStartStop:
		return m, m.run(m.engine.Toggle)
	case rowTimed:
		m.State = stateDurationInput
		m.Input = ""
	case rowQuit:
		return m, tea.Quit
	default:
		c := action.All()[m.Selected]
		m.engine.SetEnabled(c, !m.snap.enabled[c])
		return m.refresh(), nil
	}
	return m, nil
}

func updateInput(msg tea.KeyMsg, m Model) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.State = stateMain
		m.ErrorMessage = ""
	case key.Matches(msg, m.keys.Submit):
		return submitInput(m)
	case key.Matches(msg, m.keys.Backspace):
		if len(m.Input) > 0 {
			m.Input = m.Input[:len(m.Input)-1]
		}
		m.ErrorMessage = ""
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			if len(m.Input) < 10 && strings.ContainsRune("0123456789.hms", r) {
				m.Input += string(r)
			}
		}
		m.ErrorMessage = ""
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func submitInput(m Model) (Model, tea.Cmd) {
	if strings.TrimSpace(m.Input) == "" {
		m.ErrorMessage = "Please enter a value"
		return m, nil
	}

	if m.State == stateIntervalInput {
		d, err := util.ParseInterval(m.Input)
		if err != nil {
			m.ErrorMessage = firstLine(err)
			return m, nil
		}
		if err := m.engine.SetInterval(d); err != nil {
			m.ErrorMessage = err.Error()
			return m, nil
		}
		m.State = stateMain
		return m.refresh(), nil
	}

	d, err := util.ParseDuration(m.Input)
	if err != nil {
		m.ErrorMessage = firstLine(err)
		return m, nil
	}
	if d <= 0 {
		m.ErrorMessage = "Duration must be positive"
		return m, nil
	}
	m.State = stateMain
	engine := m.engine
	return m, func() tea.Msg {
		engine.Stop()
		return engineDoneMsg{err: engine.StartFor(d)}
	}
}

// run calls fn off the UI goroutine since Start performs an action before
// returning.
func (m Model) run(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return engineDoneMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func firstLine(err error) string {
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}
