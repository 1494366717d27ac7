//go:build linux

package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls  []string
	output string
	err    error
}

func (f *fakeRunner) run(name string, args ...string) (string, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	return f.output, f.err
}

func TestXdotoolInjector(t *testing.T) {
	f := &fakeRunner{}
	inj := NewXdotoolInjector(1920, 1080)
	inj.run = f.run

	require.NoError(t, inj.MoveTo(Point{X: 10.4, Y: 20.6}))
	require.NoError(t, inj.Button(ButtonLeft, true))
	require.NoError(t, inj.Button(ButtonLeft, false))
	require.NoError(t, inj.Button(ButtonRight, true))
	require.NoError(t, inj.Key(30, true))
	require.NoError(t, inj.Key(30, false))

	assert.Equal(t, []string{
		"xdotool mousemove 10 21",
		"xdotool mousedown 1",
		"xdotool mouseup 1",
		"xdotool mousedown 3",
		"xdotool keydown a",
		"xdotool keyup a",
	}, f.calls)
	assert.Equal(t, "xdotool", inj.Name())
}

func TestXdotoolCursor(t *testing.T) {
	f := &fakeRunner{output: "X=123\nY=456\nSCREEN=0\nWINDOW=789\n"}
	inj := NewXdotoolInjector(1920, 1080)
	inj.run = f.run

	p, err := inj.Cursor()
	require.NoError(t, err)
	assert.Equal(t, Point{X: 123, Y: 456}, p)
}

func TestXdotoolCursorFallsBackToTracked(t *testing.T) {
	f := &fakeRunner{err: errors.New("no display")}
	inj := NewXdotoolInjector(1920, 1080)
	inj.run = f.run

	p, err := inj.Cursor()
	require.NoError(t, err)
	assert.Equal(t, Point{X: 960, Y: 540}, p)
}

func TestYdotoolInjector(t *testing.T) {
	f := &fakeRunner{}
	inj := NewYdotoolInjector(1920, 1080)
	inj.run = f.run

	require.NoError(t, inj.MoveTo(Point{X: 5, Y: 6}))
	require.NoError(t, inj.Button(ButtonLeft, true))
	require.NoError(t, inj.Button(ButtonLeft, false))
	require.NoError(t, inj.Button(ButtonRight, true))
	require.NoError(t, inj.Button(ButtonRight, false))
	require.NoError(t, inj.Key(48, true))
	require.NoError(t, inj.Key(48, false))

	assert.Equal(t, []string{
		"ydotool mousemove --absolute -x 5 -y 6",
		"ydotool click 0x40",
		"ydotool click 0x80",
		"ydotool click 0x41",
		"ydotool click 0x81",
		"ydotool key 48:1",
		"ydotool key 48:0",
	}, f.calls)

	p, err := inj.Cursor()
	require.NoError(t, err)
	assert.Equal(t, Point{X: 5, Y: 6}, p, "ydotool reports the last posted position")
}

func TestCommandInjectorError(t *testing.T) {
	f := &fakeRunner{output: "failed to connect", err: errors.New("exit status 1")}
	inj := NewYdotoolInjector(100, 100)
	inj.run = f.run

	err := inj.MoveTo(Point{X: 1, Y: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")

	p, _ := inj.Cursor()
	assert.Equal(t, Point{X: 50, Y: 50}, p, "a failed move does not update the tracked pointer")
}

func TestXdotoolUnknownKey(t *testing.T) {
	inj := NewXdotoolInjector(100, 100)
	inj.run = (&fakeRunner{}).run
	assert.Error(t, inj.Key(1, true))
}
