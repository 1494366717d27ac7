//go:build linux

package hotkey

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/stigoleg/keepawayk/internal/input"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01

	keyReleased = 0
	keyPressed  = 1
)

type rawEvent struct {
	time  unix.Timeval
	etype uint16
	code  uint16
	value int32
}

const eventSize = int(unsafe.Sizeof(rawEvent{}))

var keyboardGlobs = []string{
	"/dev/input/by-path/*-event-kbd",
	"/dev/input/by-id/*-event-kbd",
}

// FindKeyboards returns the event devices of attached keyboards, resolved and
// de-duplicated.
func FindKeyboards() []string {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range keyboardGlobs {
		matches, _ := filepath.Glob(pattern)
		for _, m := range matches {
			real, err := filepath.EvalSymlinks(m)
			if err != nil {
				real = m
			}
			if !seen[real] {
				seen[real] = true
				out = append(out, real)
			}
		}
	}
	return out
}

// Listener reads key events from keyboard devices and feeds a Manager.
type Listener struct {
	manager *Manager
	log     *zap.Logger
	devices []string
}

// NewListener returns a listener for the given devices, or for every
// keyboard FindKeyboards reports when devices is empty.
func NewListener(m *Manager, log *zap.Logger, devices ...string) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Listener{manager: m, log: log, devices: devices}
}

// Run blocks until ctx is done. It fails fast when no device can be opened.
func (l *Listener) Run(ctx context.Context) error {
	devices := l.devices
	if len(devices) == 0 {
		devices = FindKeyboards()
	}
	if len(devices) == 0 {
		return fmt.Errorf("%w: no keyboard devices under /dev/input", ErrUnavailable)
	}

	var files []*os.File
	var lastErr error
	for _, path := range devices {
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			l.log.Debug("cannot open keyboard", zap.String("device", path), zap.Error(err))
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: %v (is the user in the 'input' group?)", ErrUnavailable, lastErr)
	}
	l.log.Info("listening for hotkeys", zap.Int("devices", len(files)), zap.Strings("combos", l.manager.Combos()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		for _, f := range files {
			f.Close()
		}
		return nil
	})
	for _, f := range files {
		g.Go(func() error {
			l.read(gctx, f)
			return nil
		})
	}
	return g.Wait()
}

func (l *Listener) read(ctx context.Context, f *os.File) {
	buf := make([]byte, eventSize*64)
	for {
		n, err := f.Read(buf)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, os.ErrClosed) {
				l.log.Warn("keyboard lost", zap.String("device", f.Name()), zap.Error(err))
			}
			return
		}
		for _, ev := range decodeEvents(buf[:n]) {
			l.handle(ev)
		}
	}
}

func (l *Listener) handle(ev rawEvent) {
	if ev.etype != evKey || (ev.value != keyPressed && ev.value != keyReleased) {
		return
	}
	name := KeyName(input.KeyCode(ev.code))
	if name == "" {
		return
	}
	l.manager.UpdateState(name, ev.value == keyPressed)
}

func decodeEvents(buf []byte) []rawEvent {
	events := make([]rawEvent, 0, len(buf)/eventSize)
	for len(buf) >= eventSize {
		events = append(events, *(*rawEvent)(unsafe.Pointer(&buf[0])))
		buf = buf[eventSize:]
	}
	return events
}
