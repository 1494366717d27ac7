// Package action defines the kinds of synthetic activity the engine can
// perform, picks one at random and executes it through an input.Injector.
package action

import (
	"fmt"
	"strings"
)

// Category is one kind of synthetic activity.
type Category int

const (
	PointerMove Category = iota
	LeftClick
	RightClick
	KeyPress
)

// All returns every category in its fixed order.
func All() []Category {
	return []Category{PointerMove, LeftClick, RightClick, KeyPress}
}

// String returns the short name used in flags, config files and logs.
func (c Category) String() string {
	switch c {
	case PointerMove:
		return "move"
	case LeftClick:
		return "left-click"
	case RightClick:
		return "right-click"
	case KeyPress:
		return "key"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Label returns the name shown in the control surface.
func (c Category) Label() string {
	switch c {
	case PointerMove:
		return "Mouse movements"
	case LeftClick:
		return "Left clicks"
	case RightClick:
		return "Right clicks"
	case KeyPress:
		return "Keyboard actions"
	default:
		return c.String()
	}
}

// ParseCategory accepts the short name, the label or a common alias.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "move", "mouse", "pointer", "mouse movements", "pointer-move":
		return PointerMove, nil
	case "left-click", "left", "leftclick", "left clicks", "click":
		return LeftClick, nil
	case "right-click", "right", "rightclick", "right clicks":
		return RightClick, nil
	case "key", "keys", "keyboard", "keypress", "keyboard actions":
		return KeyPress, nil
	default:
		return 0, fmt.Errorf("unknown action %q (valid: move, left-click, right-click, key)", s)
	}
}

// ParseCategories parses a list of names into a set.
func ParseCategories(names []string) (map[Category]bool, error) {
	set := make(map[Category]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		set[c] = true
	}
	return set, nil
}

// AllEnabled returns a set with every category enabled.
func AllEnabled() map[Category]bool {
	set := make(map[Category]bool, 4)
	for _, c := range All() {
		set[c] = true
	}
	return set
}

// Names returns the short names of the enabled categories in fixed order.
func Names(set map[Category]bool) []string {
	var out []string
	for _, c := range All() {
		if set[c] {
			out = append(out, c.String())
		}
	}
	return out
}
