//go:build linux

package input

import (
	"fmt"
	"strconv"
	"sync"
)

// CommandInjector posts events by shelling out to xdotool (X11) or ydotool
// (X11 and Wayland, needs ydotoold).
type CommandInjector struct {
	tool string
	run  func(name string, args ...string) (string, error)

	mu     sync.Mutex
	width  int
	height int
	cursor Point
}

// NewXdotoolInjector returns an injector driving xdotool.
func NewXdotoolInjector(width, height int) *CommandInjector {
	return newCommandInjector("xdotool", width, height)
}

// NewYdotoolInjector returns an injector driving ydotool.
func NewYdotoolInjector(width, height int) *CommandInjector {
	return newCommandInjector("ydotool", width, height)
}

func newCommandInjector(tool string, width, height int) *CommandInjector {
	return &CommandInjector{
		tool:   tool,
		run:    runCommand,
		width:  width,
		height: height,
		cursor: Point{X: float64(width) / 2, Y: float64(height) / 2},
	}
}

func (c *CommandInjector) exec(args ...string) error {
	out, err := c.run(c.tool, args...)
	if err != nil {
		return fmt.Errorf("%s %v: %w (output: %q)", c.tool, args, err, out)
	}
	return nil
}

func (c *CommandInjector) ScreenSize() (int, int, error) {
	return c.width, c.height, nil
}

// Cursor asks xdotool for the live position; ydotool cannot report it, so the
// last posted position is returned instead.
func (c *CommandInjector) Cursor() (Point, error) {
	if c.tool == "xdotool" {
		out, err := c.run(c.tool, "getmouselocation", "--shell")
		if err == nil {
			if p, err := parseMouseLocation(out); err == nil {
				return p, nil
			}
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor, nil
}

func (c *CommandInjector) MoveTo(p Point) error {
	x, y := p.Round()
	var err error
	if c.tool == "ydotool" {
		err = c.exec("mousemove", "--absolute", "-x", strconv.Itoa(x), "-y", strconv.Itoa(y))
	} else {
		err = c.exec("mousemove", strconv.Itoa(x), strconv.Itoa(y))
	}
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cursor = p
	c.mu.Unlock()
	return nil
}

func (c *CommandInjector) Button(b Button, pressed bool) error {
	if c.tool == "ydotool" {
		// bit 6 = down, bit 7 = up, low nibble = button index
		code := ydotoolButtonIndex(b) | 0x80
		if pressed {
			code = ydotoolButtonIndex(b) | 0x40
		}
		return c.exec("click", fmt.Sprintf("0x%02X", code))
	}
	verb := "mouseup"
	if pressed {
		verb = "mousedown"
	}
	return c.exec(verb, strconv.Itoa(xdotoolButton(b)))
}

func (c *CommandInjector) Key(code KeyCode, pressed bool) error {
	if c.tool == "ydotool" {
		return c.exec("key", fmt.Sprintf("%d:%d", code, boolValue(pressed)))
	}
	r, ok := CharForKey(code)
	if !ok {
		return fmt.Errorf("xdotool: no keysym for key code %d", code)
	}
	verb := "keyup"
	if pressed {
		verb = "keydown"
	}
	return c.exec(verb, string(r))
}

func (c *CommandInjector) Name() string { return c.tool }

func (c *CommandInjector) Close() error { return nil }

func xdotoolButton(b Button) int {
	switch b {
	case ButtonRight:
		return 3
	case ButtonMiddle:
		return 2
	default:
		return 1
	}
}

func ydotoolButtonIndex(b Button) int {
	switch b {
	case ButtonRight:
		return 0x01
	case ButtonMiddle:
		return 0x02
	default:
		return 0x00
	}
}
