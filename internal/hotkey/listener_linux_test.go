//go:build linux

package hotkey

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(events ...rawEvent) []byte {
	var out []byte
	for i := range events {
		out = append(out, (*[unsafe.Sizeof(rawEvent{})]byte)(unsafe.Pointer(&events[i]))[:]...)
	}
	return out
}

func TestDecodeEvents(t *testing.T) {
	buf := encode(
		rawEvent{etype: evKey, code: 29, value: keyPressed},
		rawEvent{etype: evKey, code: 21, value: keyReleased},
	)
	// a trailing partial event is ignored
	buf = append(buf, 1, 2, 3)

	events := decodeEvents(buf)
	require.Len(t, events, 2)
	assert.Equal(t, uint16(29), events[0].code)
	assert.Equal(t, int32(keyPressed), events[0].value)
	assert.Equal(t, uint16(21), events[1].code)
}

func TestListenerFeedsManager(t *testing.T) {
	m := NewManager(nil)
	var fired atomic.Int32
	require.NoError(t, m.Register("Ctrl+Y", func() { fired.Add(1) }))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	_, err = w.Write(encode(
		rawEvent{etype: evKey, code: 29, value: keyPressed},
		rawEvent{etype: 0x00, code: 0, value: 0}, // SYN_REPORT
		rawEvent{etype: evKey, code: 21, value: keyPressed},
		rawEvent{etype: evKey, code: 21, value: 2}, // repeat
		rawEvent{etype: evKey, code: 21, value: keyReleased},
	))
	require.NoError(t, err)
	w.Close()

	l := NewListener(m, nil)
	l.read(context.Background(), r)

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestListenerRunWithoutDevices(t *testing.T) {
	l := NewListener(NewManager(nil), nil, filepath.Join(t.TempDir(), "missing-event-kbd"))
	err := l.Run(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestListenerRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event-kbd")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewListener(NewManager(nil), nil, path)
	assert.NoError(t, l.Run(ctx))
}
