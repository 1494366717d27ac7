// Package input posts synthetic pointer, button and keyboard events into the
// operating system's input queue.
package input

import (
	"errors"
	"math"
)

// ErrUnavailable is returned when an injection primitive or a display query
// cannot be served by the current backend.
var ErrUnavailable = errors.New("input: injection unavailable")

// Point is a screen position in pixels. Fractional values are allowed so that
// trajectories can be interpolated; backends round when posting.
type Point struct {
	X float64
	Y float64
}

// Round returns the point snapped to the nearest pixel.
func (p Point) Round() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// Button identifies a mouse button by its evdev code.
type Button uint16

const (
	ButtonLeft   Button = 0x110 // BTN_LEFT
	ButtonRight  Button = 0x111 // BTN_RIGHT
	ButtonMiddle Button = 0x112 // BTN_MIDDLE
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// KeyCode is a Linux evdev key code (KEY_A = 30, ...).
type KeyCode uint16

// Injector synthesizes one input event per call.
type Injector interface {
	// ScreenSize reports the primary display size in pixels.
	ScreenSize() (width, height int, err error)
	// Cursor reports the current pointer position.
	Cursor() (Point, error)
	// MoveTo posts one absolute pointer move.
	MoveTo(p Point) error
	// Button posts a button press or release at the current pointer position.
	Button(b Button, pressed bool) error
	// Key posts a key press or release.
	Key(code KeyCode, pressed bool) error
	// Name identifies the backend in logs.
	Name() string
	Close() error
}
