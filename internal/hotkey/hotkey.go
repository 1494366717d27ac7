// Package hotkey provides global shortcut matching and a keyboard listener
// that feeds it.
package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultCombo toggles the scheduler.
const DefaultCombo = "Ctrl+Y"

// ErrUnavailable is returned when no keyboard can be monitored.
var ErrUnavailable = errors.New("hotkey: global keyboard monitoring unavailable")

var modifierAliases = map[string]string{
	"CTRL":    "CTRL",
	"CONTROL": "CTRL",
	"SHIFT":   "SHIFT",
	"ALT":     "ALT",
	"OPTION":  "ALT",
	"SUPER":   "SUPER",
	"META":    "SUPER",
	"WIN":     "SUPER",
	"CMD":     "SUPER",
	"COMMAND": "SUPER",
}

// Canonical maps a key name to the form used in combos: modifiers collapse
// to CTRL, SHIFT, ALT or SUPER and everything else is upper-cased.
func Canonical(key string) string {
	k := strings.ToUpper(strings.TrimSpace(key))
	if m, ok := modifierAliases[k]; ok {
		return m
	}
	return k
}

func isModifier(k string) bool {
	_, ok := modifierAliases[k]
	return ok
}

// ParseCombo splits "Ctrl+Y" into canonical parts. A combo needs exactly one
// non-modifier key from [A-Z0-9].
func ParseCombo(combo string) ([]string, error) {
	if strings.TrimSpace(combo) == "" {
		return nil, errors.New("empty hotkey")
	}
	var parts []string
	keys := 0
	for _, raw := range strings.Split(combo, "+") {
		p := Canonical(raw)
		switch {
		case p == "":
			return nil, fmt.Errorf("hotkey %q has an empty part", combo)
		case isModifier(p):
		case len(p) == 1 && (p[0] >= 'A' && p[0] <= 'Z' || p[0] >= '0' && p[0] <= '9'):
			keys++
		default:
			return nil, fmt.Errorf("hotkey %q: unsupported key %q", combo, raw)
		}
		parts = append(parts, p)
	}
	if keys != 1 {
		return nil, fmt.Errorf("hotkey %q must contain exactly one letter or digit", combo)
	}
	return parts, nil
}

// Manager matches key state against registered combos.
type Manager struct {
	mu           sync.RWMutex
	hotkeys      []*registeredHotkey
	currentState map[string]bool
	log          *zap.Logger
}

type registeredHotkey struct {
	parts    []string
	original string
	callback func()
}

// NewManager creates an empty manager.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		currentState: make(map[string]bool),
		log:          log,
	}
}

// Register binds callback to combo. The callback runs on its own goroutine
// each time the combo is completed.
func (m *Manager) Register(combo string, callback func()) error {
	parts, err := ParseCombo(combo)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		parts:    parts,
		original: combo,
		callback: callback,
	})
	return nil
}

// Clear removes all registered hotkeys.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// Combos lists the registered combos as written.
func (m *Manager) Combos() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.hotkeys))
	for _, hk := range m.hotkeys {
		out = append(out, hk.original)
	}
	return out
}

// UpdateState records a key transition. A combo fires when the key that
// completes it goes down; auto-repeat of a held key does not fire again.
func (m *Manager) UpdateState(key string, isDown bool) {
	key = Canonical(key)
	m.mu.Lock()
	if isDown {
		if m.currentState[key] {
			m.mu.Unlock()
			return
		}
		m.currentState[key] = true
	} else {
		delete(m.currentState, key)
	}
	m.mu.Unlock()

	if isDown {
		m.checkMatches(key)
	}
}

func (m *Manager) checkMatches(pressed string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, hk := range m.hotkeys {
		if hk.matches(pressed, m.currentState) {
			m.log.Info("hotkey triggered", zap.String("combo", hk.original))
			go hk.callback()
		}
	}
}

// matches reports whether pressed completes hk given the held keys. Every
// part must be held and no modifier outside the combo may be, so Ctrl+Shift+Y
// does not trigger Ctrl+Y.
func (hk *registeredHotkey) matches(pressed string, held map[string]bool) bool {
	involved := false
	want := make(map[string]bool, len(hk.parts))
	for _, part := range hk.parts {
		if part == pressed {
			involved = true
		}
		if !held[part] {
			return false
		}
		want[part] = true
	}
	if !involved {
		return false
	}
	for k := range held {
		if isModifier(k) && !want[k] {
			return false
		}
	}
	return true
}
