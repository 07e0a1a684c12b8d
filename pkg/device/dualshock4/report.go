package dualshock4

import (
	"encoding/binary"
	"io"
)

// Stream frame sizes.
const (
	ReportSize = 63
	RumbleSize = 2
)

// Rest values for an idle controller.
const (
	StickRest   uint8 = 0x80
	TriggerRest uint8 = 0x00

	// BatteryWiredFull reports a cable-powered, fully charged pad
	// (cable bit 0x10 | level 11).
	BatteryWiredFull uint8 = 0x1B
)

// Report is the extended DualShock 4 input report, including the motion
// fields. Wire format (client -> device stream): fixed 63 bytes,
// little-endian, matching the USB input report payload after the report ID.
//
// Bytes:
//
//	 0: left stick X         (0-255, 128 centered)
//	 1: left stick Y         (0-255, 128 centered, down = 255)
//	 2: right stick X
//	 3: right stick Y
//	 4-5: wButtons           (LE u16; low nibble = hat, see Direction)
//	 6: bSpecial             (PS/touchpad bits, upper 6 bits counter)
//	 7: L2 trigger           (0-255)
//	 8: R2 trigger           (0-255)
//	 9-10: wTimestamp        (LE u16, 5.33us units, rolling)
//	11: battery/status
//	12-17: gyro X/Y/Z        (LE i16 each)
//	18-23: accel X/Y/Z       (LE i16 each)
//	24-62: reserved/touch    (zeroed; no touch packets reported)
type Report struct {
	LeftStickX  uint8
	LeftStickY  uint8
	RightStickX uint8
	RightStickY uint8

	Buttons uint16
	Dpad    Direction
	Special uint8

	TriggerL uint8
	TriggerR uint8

	Timestamp uint16
	Battery   uint8

	GyroX  int16
	GyroY  int16
	GyroZ  int16
	AccelX int16
	AccelY int16
	AccelZ int16
}

// NewReport returns a report with all controls at rest. Motion and timestamp
// fields are left zero; callers populate them every cycle.
func NewReport() Report {
	return Report{
		LeftStickX:  StickRest,
		LeftStickY:  StickRest,
		RightStickX: StickRest,
		RightStickY: StickRest,
		Dpad:        DirNone,
		TriggerL:    TriggerRest,
		TriggerR:    TriggerRest,
		Battery:     BatteryWiredFull,
	}
}

// MarshalBinary encodes the report to the fixed 63-byte wire format.
func (r Report) MarshalBinary() ([]byte, error) {
	b := make([]byte, ReportSize)

	b[0] = r.LeftStickX
	b[1] = r.LeftStickY
	b[2] = r.RightStickX
	b[3] = r.RightStickY

	buttons := r.Buttons&0xFFF0 | uint16(r.Dpad)&0x0F
	binary.LittleEndian.PutUint16(b[4:6], buttons)
	b[6] = r.Special

	b[7] = r.TriggerL
	b[8] = r.TriggerR

	binary.LittleEndian.PutUint16(b[9:11], r.Timestamp)
	b[11] = r.Battery

	putI16 := func(off int, v int16) {
		binary.LittleEndian.PutUint16(b[off:off+2], uint16(v))
	}
	putI16(12, r.GyroX)
	putI16(14, r.GyroY)
	putI16(16, r.GyroZ)
	putI16(18, r.AccelX)
	putI16(20, r.AccelY)
	putI16(22, r.AccelZ)

	return b, nil
}

// UnmarshalBinary decodes a report from the fixed 63-byte wire format.
func (r *Report) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}

	r.LeftStickX = data[0]
	r.LeftStickY = data[1]
	r.RightStickX = data[2]
	r.RightStickY = data[3]

	buttons := binary.LittleEndian.Uint16(data[4:6])
	r.Buttons = buttons & 0xFFF0
	r.Dpad = Direction(buttons & 0x0F)
	r.Special = data[6]

	r.TriggerL = data[7]
	r.TriggerR = data[8]

	r.Timestamp = binary.LittleEndian.Uint16(data[9:11])
	r.Battery = data[11]

	getI16 := func(off int) int16 {
		return int16(binary.LittleEndian.Uint16(data[off : off+2]))
	}
	r.GyroX = getI16(12)
	r.GyroY = getI16(14)
	r.GyroZ = getI16(16)
	r.AccelX = getI16(18)
	r.AccelY = getI16(20)
	r.AccelZ = getI16(22)

	return nil
}

// Rumble is the device -> client stream frame carrying motor intensities.
type Rumble struct {
	Large uint8 // low-frequency motor
	Small uint8 // high-frequency motor
}

// MarshalBinary encodes Rumble to 2 bytes.
func (r *Rumble) MarshalBinary() ([]byte, error) {
	return []byte{r.Large, r.Small}, nil
}

// UnmarshalBinary decodes 2 bytes into Rumble.
func (r *Rumble) UnmarshalBinary(data []byte) error {
	if len(data) < RumbleSize {
		return io.ErrUnexpectedEOF
	}
	r.Large = data[0]
	r.Small = data[1]
	return nil
}
