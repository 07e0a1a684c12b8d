package imu

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// MPU-6500-class register backend for builds where the IMU hangs off an I²C
// bus instead of the kernel IIO layer.

const (
	mpuDefaultAddr = 0x68

	regSmplrtDiv   = 0x19
	regConfig      = 0x1A
	regGyroConfig  = 0x1B
	regAccelConfig = 0x1C
	regAccelXOutH  = 0x3B
	regGyroXOutH   = 0x43
	regPwrMgmt1    = 0x6B
	regWhoAmI      = 0x75

	// GYRO_FS_SEL=1 (±500 °/s), ACCEL_FS_SEL=1 (±4 g)
	gyroFSSel  = 1 << 3
	accelFSSel = 1 << 3

	gyroLSBPerDPS = 65.5   // ±500 °/s range
	accelLSBPerG  = 8192.0 // ±4 g range
)

var mpuKnownIDs = []byte{0x68, 0x70, 0x71, 0x73} // MPU-6050/6500/9250/9255

// MPU is an MPU-6500-class IMU on an I²C bus.
type MPU struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

// OpenMPU opens the named I²C bus (empty for the platform default), probes
// WHO_AM_I and configures ±500 °/s and ±4 g full-scale ranges.
func OpenMPU(busName string) (*MPU, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	m := &MPU{bus: bus, dev: i2c.Dev{Bus: bus, Addr: mpuDefaultAddr}}

	id, err := m.readReg(regWhoAmI)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("whoami: %w", err)
	}
	known := false
	for _, k := range mpuKnownIDs {
		if id == k {
			known = true
			break
		}
	}
	if !known {
		bus.Close()
		return nil, fmt.Errorf("unexpected whoami 0x%02x", id)
	}

	init := []struct{ reg, val byte }{
		{regPwrMgmt1, 0x01},  // clock from gyro PLL, out of sleep
		{regConfig, 0x03},    // DLPF 41 Hz
		{regSmplrtDiv, 0x00}, // full internal rate
		{regGyroConfig, gyroFSSel},
		{regAccelConfig, accelFSSel},
	}
	for _, w := range init {
		if err := m.writeReg(w.reg, w.val); err != nil {
			bus.Close()
			return nil, fmt.Errorf("config reg 0x%02x: %w", w.reg, err)
		}
	}
	return m, nil
}

// Gyro returns a source reading angular velocity in degrees/second.
func (m *MPU) Gyro() VectorSource {
	return &mpuChannel{m: m, reg: regGyroXOutH, lsb: gyroLSBPerDPS}
}

// Accel returns a source reading linear acceleration in g.
func (m *MPU) Accel() VectorSource {
	return &mpuChannel{m: m, reg: regAccelXOutH, lsb: accelLSBPerG}
}

// Close releases the underlying bus. Both channel sources become invalid.
func (m *MPU) Close() error { return m.bus.Close() }

type mpuChannel struct {
	m   *MPU
	reg byte
	lsb float64
}

func (c *mpuChannel) Read() (Vec3, error) {
	var buf [6]byte
	if err := c.m.dev.Tx([]byte{c.reg}, buf[:]); err != nil {
		return Vec3{}, fmt.Errorf("burst read 0x%02x: %w", c.reg, err)
	}
	// big-endian int16 triplet
	x := int16(binary.BigEndian.Uint16(buf[0:2]))
	y := int16(binary.BigEndian.Uint16(buf[2:4]))
	z := int16(binary.BigEndian.Uint16(buf[4:6]))
	return Vec3{
		X: float64(x) / c.lsb,
		Y: float64(y) / c.lsb,
		Z: float64(z) / c.lsb,
	}, nil
}

func (c *mpuChannel) Close() error { return nil }

func (m *MPU) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := m.dev.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *MPU) writeReg(reg, val byte) error {
	return m.dev.Tx([]byte{reg, val}, nil)
}
