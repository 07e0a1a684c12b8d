package imu

// The Legion Go gyro driver intermittently reports a large negative value on
// one or more axes while the sensor is saturated during fast rotation. The
// reading is an artifact, not motion: passing it through would hard-clip the
// scaled output and flip its sign. The compensator replaces such readings
// with a synthetic value that keeps the sign of the last good reading and
// grows in magnitude the longer the axis stays stuck, so downstream consumers
// see angular momentum continuing outward instead of a sign inversion.
const (
	// GlitchFloorDPS is the empirical fault bound: no real reading from this
	// sensor falls below it.
	GlitchFloorDPS = -180.0
	// GlitchBaseDPS is the synthetic magnitude on the first stuck tick.
	GlitchBaseDPS = 30.0
	// GlitchRampDPS is the per-tick magnitude growth while stuck.
	GlitchRampDPS = 15.0
)

// Compensator carries the per-axis glitch state across ticks. It is owned
// exclusively by the gyroscope acquisition loop and must not be shared.
// The zero value is ready to use.
type Compensator struct {
	lastGood    [3]float64
	haveGood    [3]bool
	glitchTicks [3]int
}

// Apply filters one raw gyro reading (degrees/second, source convention).
// Axes are independent: a glitch on one axis never disturbs the others.
// Synthetic values are not clamped here; the scaler clamps later.
func (c *Compensator) Apply(raw Vec3) Vec3 {
	in := raw.Array()
	var out [3]float64
	for i, v := range in {
		if v < GlitchFloorDPS {
			c.glitchTicks[i]++
			mag := GlitchBaseDPS + GlitchRampDPS*float64(c.glitchTicks[i]-1)
			if c.haveGood[i] && c.lastGood[i] < 0 {
				mag = -mag
			}
			out[i] = mag
			continue
		}
		c.glitchTicks[i] = 0
		c.lastGood[i] = v
		c.haveGood[i] = true
		out[i] = v
	}
	return FromArray(out)
}
