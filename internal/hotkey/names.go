package hotkey

import (
	"strings"

	"github.com/stigoleg/keepawayk/internal/input"
)

// evdev codes of the modifier keys, left and right.
var modifierCodes = map[input.KeyCode]string{
	29:  "CTRL",
	97:  "CTRL",
	42:  "SHIFT",
	54:  "SHIFT",
	56:  "ALT",
	100: "ALT",
	125: "SUPER",
	126: "SUPER",
}

// KeyName returns the combo name of an evdev key code, or "" when the key
// cannot take part in a combo.
func KeyName(code input.KeyCode) string {
	if m, ok := modifierCodes[code]; ok {
		return m
	}
	if r, ok := input.CharForKey(code); ok {
		return strings.ToUpper(string(r))
	}
	return ""
}
