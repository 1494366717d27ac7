package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines key bindings for various UI states and common actions.
type KeyMap struct {
	Quit       key.Binding
	ToggleHelp key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Toggle key.Binding

	Back      key.Binding
	Submit    key.Binding
	Backspace key.Binding
}

// DefaultKeys returns the default key bindings for the application.
func DefaultKeys() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "toggle help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t", "ctrl+y"),
			key.WithHelp("t/ctrl+y", "start/stop"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
	}
}

// NewHelpModel returns a configured help model.
func NewHelpModel() help.Model {
	return help.New()
}

type stateKeyMap struct {
	keys  KeyMap
	state state
}

// ForState returns a contextual key map implementing help.KeyMap for the given state.
func (k KeyMap) ForState(s state) help.KeyMap {
	return stateKeyMap{keys: k, state: s}
}

func (s stateKeyMap) ShortHelp() []key.Binding {
	if s.state == stateMain {
		return []key.Binding{s.keys.Up, s.keys.Down, s.keys.Select, s.keys.Toggle, s.keys.ToggleHelp, s.keys.Quit}
	}
	return []key.Binding{s.keys.Submit, s.keys.Backspace, s.keys.Back}
}

func (s stateKeyMap) FullHelp() [][]key.Binding {
	if s.state == stateMain {
		return [][]key.Binding{
			{s.keys.Up, s.keys.Down, s.keys.Select},
			{s.keys.Toggle, s.keys.ToggleHelp, s.keys.Quit},
		}
	}
	return [][]key.Binding{{s.keys.Submit, s.keys.Backspace, s.keys.Back}}
}
