// Package pad reads the physical gamepad through the Linux input layer and
// forwards rumble back to it.
package pad

import "github.com/Originalimoc/compatctl/pkg/device/dualshock4"

// State is one polled snapshot of the physical gamepad. Raw axis values keep
// the kernel's signed 16-bit convention (triggers: -32768 released, 32767
// fully pressed). Absence of a snapshot is represented by the caller
// (a missing State is not the same as an all-released one).
type State struct {
	Cross, Circle, Square, Triangle bool
	L1, R1, L3, R3                  bool
	Share, Options, PS, Touchpad    bool

	Up, Down, Left, Right bool

	LX, LY, RX, RY int16
	L2, R2         int16
}

// Rest is the snapshot of an untouched gamepad: sticks centered, triggers
// fully released. Used in place of a missing snapshot when the pad is
// unavailable.
func Rest() State {
	return State{L2: -32768, R2: -32768}
}

// DecodeDpad maps the four dpad booleans onto the 9-state hat value by exact
// truth-table match. Self-contradictory combinations (up+down, left+right)
// resolve to DirNone on purpose; they are not an error.
func DecodeDpad(up, down, left, right bool) dualshock4.Direction {
	switch {
	case up && down, left && right:
		return dualshock4.DirNone
	case up && right:
		return dualshock4.DirNorthEast
	case down && right:
		return dualshock4.DirSouthEast
	case down && left:
		return dualshock4.DirSouthWest
	case up && left:
		return dualshock4.DirNorthWest
	case up:
		return dualshock4.DirNorth
	case right:
		return dualshock4.DirEast
	case down:
		return dualshock4.DirSouth
	case left:
		return dualshock4.DirWest
	default:
		return dualshock4.DirNone
	}
}

// Buttons packs the snapshot's buttons into the report's wButtons bitset,
// plus the special bits. When shareButton is false the Share bit is never
// set, regardless of the physical state.
func (s State) Buttons(shareButton bool) (buttons uint16, special uint8) {
	set := func(cond bool, mask uint16) {
		if cond {
			buttons |= mask
		}
	}
	set(s.Square, dualshock4.ButtonSquare)
	set(s.Cross, dualshock4.ButtonCross)
	set(s.Circle, dualshock4.ButtonCircle)
	set(s.Triangle, dualshock4.ButtonTriangle)
	set(s.L1, dualshock4.ButtonL1)
	set(s.R1, dualshock4.ButtonR1)
	set(s.L2 > triggerDigitalThreshold, dualshock4.ButtonL2)
	set(s.R2 > triggerDigitalThreshold, dualshock4.ButtonR2)
	set(s.Share && shareButton, dualshock4.ButtonShare)
	set(s.Options, dualshock4.ButtonOptions)
	set(s.L3, dualshock4.ButtonL3)
	set(s.R3, dualshock4.ButtonR3)

	if s.PS {
		special |= dualshock4.SpecialPS
	}
	if s.Touchpad {
		special |= dualshock4.SpecialTouchpad
	}
	return buttons, special
}

// triggerDigitalThreshold mirrors where physical DS4 pads assert the digital
// L2/R2 bits alongside the analog axis.
const triggerDigitalThreshold = -32768 + 3277 // ~5% travel
