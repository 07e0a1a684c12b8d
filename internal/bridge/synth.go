package bridge

import (
	"github.com/Originalimoc/compatctl/internal/imu"
	"github.com/Originalimoc/compatctl/internal/pad"
	"github.com/Originalimoc/compatctl/internal/scale"
	"github.com/Originalimoc/compatctl/pkg/device/dualshock4"
)

// Synthesizer combines the latest published samples into one outbound
// report. Pure: all state (compensator, pacer, slots) lives outside it.
type Synthesizer struct {
	// shareButton controls whether the report's Share bit ever reflects the
	// physical button. Fixed at construction; no process-wide flag.
	shareButton bool
}

func NewSynthesizer(shareButton bool) Synthesizer {
	return Synthesizer{shareButton: shareButton}
}

// Synthesize builds the report for one emission cycle. gyro is in
// degrees/second and accel in g, both already remapped and compensated.
// st is the gamepad snapshot; callers substitute pad.Rest() when the pad is
// absent so motion keeps flowing while controls read released.
// Stick vertical axes are inverted: the snapshot convention is positive-up,
// the report's is down = 255.
func (s Synthesizer) Synthesize(gyro, accel imu.Vec3, st pad.State, timestamp uint16) dualshock4.Report {
	r := dualshock4.NewReport()

	r.Buttons, r.Special = st.Buttons(s.shareButton)
	r.Dpad = pad.DecodeDpad(st.Up, st.Down, st.Left, st.Right)

	r.LeftStickX = scale.StickByte(st.LX, false)
	r.LeftStickY = scale.StickByte(st.LY, true)
	r.RightStickX = scale.StickByte(st.RX, false)
	r.RightStickY = scale.StickByte(st.RY, true)
	r.TriggerL = scale.TriggerByte(st.L2)
	r.TriggerR = scale.TriggerByte(st.R2)

	r.GyroX = scale.Gyro(gyro.X)
	r.GyroY = scale.Gyro(gyro.Y)
	r.GyroZ = scale.Gyro(gyro.Z)
	r.AccelX = scale.Accel(accel.X)
	r.AccelY = scale.Accel(accel.Y)
	r.AccelZ = scale.Accel(accel.Z)

	r.Timestamp = timestamp
	return r
}
