//go:build linux

package input

import (
	"encoding/binary"
	"io"
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// Descriptor 0 is a valid device handle; only -1 means closed.
func TestUinputInjectorOnDescriptorZero(t *testing.T) {
	saved, err := unix.Dup(0)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unix.Dup3(saved, 0, 0)
		_ = unix.Close(saved)
	})

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	require.NoError(t, unix.Dup3(int(w.Fd()), 0, 0))

	u := &UinputInjector{fd: 0, width: 100, height: 100}
	require.NoError(t, u.MoveTo(Point{X: 3, Y: 4}))

	// ABS_X, ABS_Y, SYN_REPORT
	size := int(unsafe.Sizeof(inputEvent{}))
	buf := make([]byte, 3*size)
	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)
	valueAt := func(i int) int32 {
		return int32(binary.NativeEndian.Uint32(buf[i*size+size-4:]))
	}
	assert.EqualValues(t, 3, valueAt(0))
	assert.EqualValues(t, 4, valueAt(1))

	require.NoError(t, u.Close())
	assert.Equal(t, -1, u.fd)
	assert.ErrorIs(t, u.MoveTo(Point{}), ErrUnavailable)
	assert.NoError(t, u.Close(), "closing twice is a no-op")
}
