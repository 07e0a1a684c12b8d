package pad

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux input.h constants used by the evdev reader.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03
	evFF  = 0x15

	btnSouth  = 0x130 // cross
	btnEast   = 0x131 // circle
	btnNorth  = 0x133 // triangle
	btnWest   = 0x134 // square
	btnTL     = 0x136
	btnTR     = 0x137
	btnTL2    = 0x138
	btnTR2    = 0x139
	btnSelect = 0x13a // share
	btnStart  = 0x13b // options
	btnMode   = 0x13c // PS
	btnThumbL = 0x13d
	btnThumbR = 0x13e

	absX     = 0x00
	absY     = 0x01
	absZ     = 0x02 // left trigger on most pads
	absRX    = 0x03
	absRY    = 0x04
	absRZ    = 0x05 // right trigger
	absHat0X = 0x10
	absHat0Y = 0x11

	ffRumble = 0x50
)

// ioctl request numbers (64-bit layout).
const (
	eviocgname = 0x80ff4506 // EVIOCGNAME(255)
	eviocgbit  = 0x80604521 // EVIOCGBIT(EV_KEY, 96)
	eviocgabs  = 0x80184540 // EVIOCGABS(0); add the abs code
	eviocsff   = 0x40304580 // EVIOCSFF
)

// inputEvent mirrors struct input_event on 64-bit Linux.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

const inputEventSize = int(unsafe.Sizeof(inputEvent{}))

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value, Minimum, Maximum, Fuzz, Flat, Resolution int32
}

// ffEffect mirrors struct ff_effect with the rumble union member.
type ffEffect struct {
	Type            uint16
	ID              int16
	Direction       uint16
	TriggerButton   uint16
	TriggerInterval uint16
	ReplayLength    uint16
	ReplayDelay     uint16
	_               uint16
	StrongMagnitude uint16
	WeakMagnitude   uint16
	_               [28]byte
}

// Info describes one discovered input device, for diagnostics.
type Info struct {
	Path    string
	Name    string
	Gamepad bool
}

// List enumerates /dev/input/event* devices and whether they expose gamepad
// keys.
func List() ([]Info, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	out := make([]Info, 0, len(paths))
	for _, p := range paths {
		f, err := os.OpenFile(p, os.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			continue
		}
		out = append(out, Info{
			Path:    p,
			Name:    deviceName(f.Fd()),
			Gamepad: hasGamepadKeys(f.Fd()),
		})
		f.Close()
	}
	return out, nil
}

// Find locates a gamepad event device. An empty name selects the first
// device exposing gamepad keys; otherwise the device name must contain the
// given substring (case-insensitive).
func Find(name string) (string, error) {
	devices, err := List()
	if err != nil {
		return "", err
	}
	nameLower := strings.ToLower(strings.TrimSpace(name))
	for _, d := range devices {
		if !d.Gamepad {
			continue
		}
		if nameLower == "" || strings.Contains(strings.ToLower(d.Name), nameLower) {
			return d.Path, nil
		}
	}
	return "", fmt.Errorf("no gamepad event device found (name=%q)", name)
}

// Device polls a gamepad through evdev. It keeps the decoded state of every
// axis and button seen so far; Poll drains pending events non-blockingly and
// returns the current snapshot.
type Device struct {
	f     *os.File
	state State
	buf   []byte

	// axis calibration from EVIOCGABS, used to normalize onto int16
	axes map[uint16]absInfo

	// set once an analog trigger event arrives; digital trigger keys are
	// ignored from then on so they cannot fight the axis
	analogL2, analogR2 bool

	ffID int16 // kernel-assigned rumble effect slot, -1 until uploaded
}

// Open opens an event device read-write (write access is needed for rumble)
// in non-blocking mode.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := &Device{
		f:    f,
		buf:  make([]byte, inputEventSize*64),
		axes: make(map[uint16]absInfo),
		ffID: -1,
	}
	d.state = Rest()
	for _, code := range []uint16{absX, absY, absZ, absRX, absRY, absRZ} {
		var ai absInfo
		if err := ioctlPtr(f.Fd(), eviocgabs+uintptr(code), unsafe.Pointer(&ai)); err == nil {
			d.axes[code] = ai
		}
	}
	return d, nil
}

func (d *Device) Name() string { return deviceName(d.f.Fd()) }

func (d *Device) Close() error { return d.f.Close() }

// Poll drains all pending input events and returns the resulting snapshot.
// An empty event queue is not an error: the previous snapshot still holds.
// ENODEV (device unplugged) is returned to the caller, which treats the
// state as absent.
func (d *Device) Poll() (State, error) {
	for {
		n, err := d.f.Read(d.buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				break
			}
			return State{}, fmt.Errorf("read events: %w", err)
		}
		for off := 0; off+inputEventSize <= n; off += inputEventSize {
			ev := (*inputEvent)(unsafe.Pointer(&d.buf[off]))
			d.apply(ev)
		}
	}
	return d.state, nil
}

func (d *Device) apply(ev *inputEvent) {
	switch ev.Type {
	case evKey:
		pressed := ev.Value != 0
		switch ev.Code {
		case btnSouth:
			d.state.Cross = pressed
		case btnEast:
			d.state.Circle = pressed
		case btnNorth:
			d.state.Triangle = pressed
		case btnWest:
			d.state.Square = pressed
		case btnTL:
			d.state.L1 = pressed
		case btnTR:
			d.state.R1 = pressed
		case btnTL2:
			if !d.analogL2 {
				d.state.L2 = digitalTrigger(pressed)
			}
		case btnTR2:
			if !d.analogR2 {
				d.state.R2 = digitalTrigger(pressed)
			}
		case btnSelect:
			d.state.Share = pressed
		case btnStart:
			d.state.Options = pressed
		case btnMode:
			d.state.PS = pressed
		case btnThumbL:
			d.state.L3 = pressed
		case btnThumbR:
			d.state.R3 = pressed
		}
	case evAbs:
		switch ev.Code {
		case absX:
			d.state.LX = d.normalize(absX, ev.Value)
		case absY:
			d.state.LY = d.normalize(absY, ev.Value)
		case absRX:
			d.state.RX = d.normalize(absRX, ev.Value)
		case absRY:
			d.state.RY = d.normalize(absRY, ev.Value)
		case absZ:
			d.analogL2 = true
			d.state.L2 = d.normalize(absZ, ev.Value)
		case absRZ:
			d.analogR2 = true
			d.state.R2 = d.normalize(absRZ, ev.Value)
		case absHat0X:
			d.state.Left = ev.Value < 0
			d.state.Right = ev.Value > 0
		case absHat0Y:
			d.state.Up = ev.Value < 0
			d.state.Down = ev.Value > 0
		}
	}
}

// digitalTrigger maps a trigger key state onto the signed axis range for
// pads that report L2/R2 as keys only.
func digitalTrigger(pressed bool) int16 {
	if pressed {
		return 32767
	}
	return -32768
}

// normalize maps a raw axis value onto the full signed 16-bit range using
// the device's reported min/max. Devices without range info are assumed to
// already speak int16.
func (d *Device) normalize(code uint16, v int32) int16 {
	ai, ok := d.axes[code]
	if !ok || ai.Maximum <= ai.Minimum {
		return int16(clamp32(v, -32768, 32767))
	}
	span := int64(ai.Maximum) - int64(ai.Minimum)
	scaled := (int64(v)-int64(ai.Minimum))*65535/span - 32768
	return int16(clamp32(int32(scaled), -32768, 32767))
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetRumble uploads (or updates) the rumble force-feedback effect and plays
// it. Zero for both motors uploads a zero-magnitude effect, which stops the
// motors without deleting the kernel slot.
func (d *Device) SetRumble(large, small uint8) error {
	eff := ffEffect{
		Type:            ffRumble,
		ID:              d.ffID,
		ReplayLength:    1000, // refreshed on every notification
		StrongMagnitude: uint16(large) << 8,
		WeakMagnitude:   uint16(small) << 8,
	}
	if err := ioctlPtr(d.f.Fd(), eviocsff, unsafe.Pointer(&eff)); err != nil {
		return fmt.Errorf("upload rumble effect: %w", err)
	}
	d.ffID = eff.ID

	play := inputEvent{Type: evFF, Code: uint16(eff.ID), Value: 1}
	b := (*[inputEventSize]byte)(unsafe.Pointer(&play))[:]
	if _, err := d.f.Write(b); err != nil {
		return fmt.Errorf("play rumble effect: %w", err)
	}
	return nil
}

func deviceName(fd uintptr) string {
	var buf [256]byte
	if err := ioctlPtr(fd, eviocgname, unsafe.Pointer(&buf)); err != nil {
		return ""
	}
	return strings.TrimRight(string(buf[:]), "\x00")
}

func hasGamepadKeys(fd uintptr) bool {
	var bits [96]byte
	if err := ioctlPtr(fd, eviocgbit, unsafe.Pointer(&bits)); err != nil {
		return false
	}
	return bits[btnSouth/8]&(1<<(btnSouth%8)) != 0
}

func ioctlPtr(fd, req uintptr, ptr unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(ptr))
	if errno != 0 {
		return errno
	}
	return nil
}
