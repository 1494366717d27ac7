//go:build linux

package input

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// uinput constants.
const (
	uinputDevicePath = "/dev/uinput"
	uinputBusTypeUSB = 0x03
	uinputVendorID   = 0x1234
	uinputProductID  = 0x5679
	uinputDeviceName = "keepawayk-input"

	// Linux input event types and codes
	evSyn     = 0x00
	evKey     = 0x01
	evAbs     = 0x03
	synReport = 0x00
	absX      = 0x00
	absY      = 0x01

	// uinput ioctl commands
	uiSetEvbit   = 0x40045564 // _IOW('U', 100, int)
	uiSetKeybit  = 0x40045565 // _IOW('U', 101, int)
	uiSetAbsbit  = 0x40045567 // _IOW('U', 103, int)
	uiDevCreate  = 0x5501     // _IO('U', 1)
	uiDevDestroy = 0x5502     // _IO('U', 2)

	// compositors need a moment to pick up a fresh device before events land
	uinputSettleDelay = 250 * time.Millisecond
)

type uinputUserDev struct {
	name [80]byte
	id   struct {
		bustype uint16
		vendor  uint16
		product uint16
		version uint16
	}
	ffEffectsMax uint32
	absmax       [64]int32
	absmin       [64]int32
	absfuzz      [64]int32
	absflat      [64]int32
}

type inputEvent struct {
	time  unix.Timeval
	etype uint16
	code  uint16
	value int32
}

// UinputInjector posts events through a virtual absolute-pointer and keyboard
// device created with the uinput kernel interface. The kernel offers no way to
// read the pointer back, so the injector tracks the last position it posted,
// starting at the screen centre.
type UinputInjector struct {
	mu     sync.Mutex
	fd     int // -1 once closed
	width  int
	height int
	cursor Point
}

// NewUinputInjector opens /dev/uinput and creates a device whose absolute axes
// span a width x height screen.
func NewUinputInjector(width, height int) (*UinputInjector, error) {
	fd, err := unix.Open(uinputDevicePath, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open uinput device: %w", err)
	}
	u := &UinputInjector{
		fd:     fd,
		width:  width,
		height: height,
		cursor: Point{X: float64(width) / 2, Y: float64(height) / 2},
	}

	if err := u.enableCapabilities(); err != nil {
		u.Close()
		return nil, fmt.Errorf("failed to enable uinput capabilities: %w", err)
	}
	if err := u.createDevice(); err != nil {
		u.Close()
		return nil, fmt.Errorf("failed to create uinput device: %w", err)
	}
	time.Sleep(uinputSettleDelay)
	return u, nil
}

func (u *UinputInjector) enableCapabilities() error {
	for _, ev := range []int{evSyn, evKey, evAbs} {
		if err := unix.IoctlSetInt(u.fd, uiSetEvbit, ev); err != nil {
			return err
		}
	}
	for _, b := range []Button{ButtonLeft, ButtonRight, ButtonMiddle} {
		if err := unix.IoctlSetInt(u.fd, uiSetKeybit, int(b)); err != nil {
			return err
		}
	}
	for _, code := range KeyCodes() {
		if err := unix.IoctlSetInt(u.fd, uiSetKeybit, int(code)); err != nil {
			return err
		}
	}
	for _, axis := range []int{absX, absY} {
		if err := unix.IoctlSetInt(u.fd, uiSetAbsbit, axis); err != nil {
			return err
		}
	}
	return nil
}

func (u *UinputInjector) createDevice() error {
	var dev uinputUserDev
	copy(dev.name[:], uinputDeviceName)
	dev.id.bustype = uinputBusTypeUSB
	dev.id.vendor = uinputVendorID
	dev.id.product = uinputProductID
	dev.absmax[absX] = int32(u.width - 1)
	dev.absmax[absY] = int32(u.height - 1)

	buf := (*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev))[:]
	if _, err := unix.Write(u.fd, buf); err != nil {
		return err
	}
	return unix.IoctlSetInt(u.fd, uiDevCreate, 0)
}

func (u *UinputInjector) emit(events ...inputEvent) error {
	if u.fd < 0 {
		return fmt.Errorf("%w: uinput device closed", ErrUnavailable)
	}
	events = append(events, inputEvent{etype: evSyn, code: synReport})
	for i := range events {
		ev := events[i]
		buf := (*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev))[:]
		if _, err := unix.Write(u.fd, buf); err != nil {
			return err
		}
	}
	return nil
}

func (u *UinputInjector) ScreenSize() (int, int, error) {
	return u.width, u.height, nil
}

func (u *UinputInjector) Cursor() (Point, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.cursor, nil
}

func (u *UinputInjector) MoveTo(p Point) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	x, y := p.Round()
	if err := u.emit(
		inputEvent{etype: evAbs, code: absX, value: int32(x)},
		inputEvent{etype: evAbs, code: absY, value: int32(y)},
	); err != nil {
		return err
	}
	u.cursor = p
	return nil
}

func (u *UinputInjector) Button(b Button, pressed bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.emit(inputEvent{etype: evKey, code: uint16(b), value: boolValue(pressed)})
}

func (u *UinputInjector) Key(code KeyCode, pressed bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.emit(inputEvent{etype: evKey, code: uint16(code), value: boolValue(pressed)})
}

func (u *UinputInjector) Name() string { return "uinput" }

// Close destroys the virtual device.
func (u *UinputInjector) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.fd < 0 {
		return nil
	}
	_ = unix.IoctlSetInt(u.fd, uiDevDestroy, 0)
	err := unix.Close(u.fd)
	u.fd = -1
	return err
}

func boolValue(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
