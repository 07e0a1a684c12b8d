package dualshock4

// Button masks within the wButtons field of the extended input report.
// The low nibble of wButtons carries the hat (dpad) state and is not part
// of these masks.
const (
	ButtonSquare   uint16 = 0x0010
	ButtonCross    uint16 = 0x0020
	ButtonCircle   uint16 = 0x0040
	ButtonTriangle uint16 = 0x0080
	ButtonL1       uint16 = 0x0100
	ButtonR1       uint16 = 0x0200
	ButtonL2       uint16 = 0x0400
	ButtonR2       uint16 = 0x0800
	ButtonShare    uint16 = 0x1000
	ButtonOptions  uint16 = 0x2000
	ButtonL3       uint16 = 0x4000
	ButtonR3       uint16 = 0x8000
)

// Special button masks (bSpecial field).
const (
	SpecialPS       uint8 = 0x01
	SpecialTouchpad uint8 = 0x02
)

// Direction is the 9-state hat (dpad) value encoded into the low nibble of
// wButtons. Values 0-7 are the compass points clockwise from North; 8 means
// released.
type Direction uint8

const (
	DirNorth Direction = iota
	DirNorthEast
	DirEast
	DirSouthEast
	DirSouth
	DirSouthWest
	DirWest
	DirNorthWest
	DirNone
)

func (d Direction) String() string {
	switch d {
	case DirNorth:
		return "n"
	case DirNorthEast:
		return "ne"
	case DirEast:
		return "e"
	case DirSouthEast:
		return "se"
	case DirSouth:
		return "s"
	case DirSouthWest:
		return "sw"
	case DirWest:
		return "w"
	case DirNorthWest:
		return "nw"
	default:
		return "none"
	}
}
