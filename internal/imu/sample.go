// Package imu provides motion-sensor sample types, mounting-orientation
// remapping, the glitch compensator, and the sensor source backends.
package imu

// Vec3 is a 3-axis reading. Units depend on context: degrees/second for
// angular velocity, g for linear acceleration.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func FromArray(a [3]float64) Vec3 { return Vec3{X: a[0], Y: a[1], Z: a[2]} }

// MotionSample is one fused motion reading in the target controller's axis
// convention.
type MotionSample struct {
	Gyro  Vec3 `json:"gyro"`  // degrees/second
	Accel Vec3 `json:"accel"` // g
}

// MountMatrix remaps a sample from the physical device's axis convention to
// the target controller's. Rows are the target axes expressed in source
// coordinates, so Apply is a fixed permutation-with-sign-flip for the
// supported orientations.
type MountMatrix struct {
	X Vec3
	Y Vec3
	Z Vec3
}

// Apply transforms v into the target convention.
func (m MountMatrix) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m.X.X*v.X + m.X.Y*v.Y + m.X.Z*v.Z,
		Y: m.Y.X*v.X + m.Y.Y*v.Y + m.Y.Z*v.Z,
		Z: m.Z.X*v.X + m.Z.Y*v.Y + m.Z.Z*v.Z,
	}
}

// Identity leaves the source convention untouched.
var Identity = MountMatrix{
	X: Vec3{1, 0, 0},
	Y: Vec3{0, 1, 0},
	Z: Vec3{0, 0, 1},
}

// Mounting orientation of the Legion Go sensor relative to the DualShock 4
// convention. The gyro and accelerometer are mounted differently, so each
// gets its own matrix.
var (
	LegionGoGyro = MountMatrix{
		X: Vec3{-1, 0, 0},
		Y: Vec3{0, 0, 1},
		Z: Vec3{0, 1, 0},
	}
	LegionGoAccel = MountMatrix{
		X: Vec3{1, 0, 0},
		Y: Vec3{0, 0, -1},
		Z: Vec3{0, -1, 0},
	}
)

// VectorSource reads the latest 3-axis value from one physical sensor.
// Read may block on device I/O; it is only ever called from the source's
// dedicated acquisition loop.
type VectorSource interface {
	Read() (Vec3, error)
	Close() error
}
