package imu

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Linux industrial I/O sysfs backend. Each sensor exposes per-axis raw
// channels plus a scale; raw*scale yields rad/s for angular velocity and
// m/s^2 for acceleration.

const iioBase = "/sys/bus/iio/devices"

const (
	radToDeg   = 180.0 / math.Pi
	gravityMS2 = 9.80665
)

// IIODevice is an opened IIO sensor directory.
type IIODevice struct {
	Base       string
	Name       string
	HaveGyro   bool
	HaveAccel  bool
	gyroScale  Vec3
	accelScale Vec3
	gyroPaths  [3]string
	accelPaths [3]string
}

// IIOInfo describes one discovered IIO device, for diagnostics.
type IIOInfo struct {
	Base       string
	Name       string
	HasGyro    bool
	HasAccel   bool
	GyroScale  float64
	AccelScale float64
}

// ListIIODevices enumerates IIO devices and their motion channels.
func ListIIODevices() ([]IIOInfo, error) {
	entries, err := os.ReadDir(iioBase)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", iioBase, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "iio:device") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]IIOInfo, 0, len(names))
	for _, n := range names {
		dev := filepath.Join(iioBase, n)
		nameBytes, _ := os.ReadFile(filepath.Join(dev, "name"))
		gs, _ := readFloatIfExists(filepath.Join(dev, "in_anglvel_scale"))
		as, _ := readFloatIfExists(filepath.Join(dev, "in_accel_scale"))
		out = append(out, IIOInfo{
			Base:       dev,
			Name:       strings.TrimSpace(string(nameBytes)),
			HasGyro:    fileExists(filepath.Join(dev, "in_anglvel_x_raw")),
			HasAccel:   fileExists(filepath.Join(dev, "in_accel_x_raw")),
			GyroScale:  gs,
			AccelScale: as,
		})
	}
	return out, nil
}

// FindIIODevice locates an IIO device directory. An empty name selects the
// first device exposing gyro or accel channels; otherwise the name is matched
// exactly first, then as a substring.
func FindIIODevice(name string) (string, error) {
	entries, err := os.ReadDir(iioBase)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", iioBase, err)
	}
	nameLower := strings.ToLower(strings.TrimSpace(name))

	var exact, partial, firstWithIMU string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "iio:device") {
			continue
		}
		dev := filepath.Join(iioBase, e.Name())
		b, _ := os.ReadFile(filepath.Join(dev, "name"))
		devLower := strings.ToLower(strings.TrimSpace(string(b)))

		hasMotion := fileExists(filepath.Join(dev, "in_anglvel_x_raw")) ||
			fileExists(filepath.Join(dev, "in_accel_x_raw"))
		if firstWithIMU == "" && hasMotion {
			firstWithIMU = dev
		}
		if nameLower == "" {
			continue
		}
		if devLower == nameLower {
			exact = dev
		} else if partial == "" && strings.Contains(devLower, nameLower) {
			partial = dev
		}
	}
	switch {
	case nameLower != "" && exact != "":
		return exact, nil
	case nameLower != "" && partial != "":
		return partial, nil
	case firstWithIMU != "":
		return firstWithIMU, nil
	default:
		return "", fmt.Errorf("no iio motion device found (name=%q)", name)
	}
}

// OpenIIO opens an IIO device directory and reads its channel scales.
func OpenIIO(base string) (*IIODevice, error) {
	dev := &IIODevice{Base: base}
	if b, err := os.ReadFile(filepath.Join(base, "name")); err == nil {
		dev.Name = strings.TrimSpace(string(b))
	}

	axes := [3]string{"x", "y", "z"}
	for i, ax := range axes {
		dev.gyroPaths[i] = filepath.Join(base, "in_anglvel_"+ax+"_raw")
		dev.accelPaths[i] = filepath.Join(base, "in_accel_"+ax+"_raw")
	}
	dev.HaveGyro = fileExists(dev.gyroPaths[0])
	dev.HaveAccel = fileExists(dev.accelPaths[0])
	if !dev.HaveGyro && !dev.HaveAccel {
		return nil, errors.New("no gyro/accel channels in iio device")
	}

	if dev.HaveGyro {
		dev.gyroScale = readChannelScale(base, "in_anglvel")
	}
	if dev.HaveAccel {
		dev.accelScale = readChannelScale(base, "in_accel")
	}
	return dev, nil
}

// readChannelScale reads per-axis scales, falling back to the shared scale
// file when axes do not carry their own.
func readChannelScale(base, prefix string) Vec3 {
	var s [3]float64
	axes := [3]string{"x", "y", "z"}
	for i, ax := range axes {
		if v, ok := readFloatIfExists(filepath.Join(base, prefix+"_"+ax+"_scale")); ok {
			s[i] = v
		}
	}
	if s[0] == 0 && s[1] == 0 && s[2] == 0 {
		if v, ok := readFloatIfExists(filepath.Join(base, prefix+"_scale")); ok {
			s = [3]float64{v, v, v}
		}
	}
	return FromArray(s)
}

// Gyro returns a source reading angular velocity in degrees/second.
func (d *IIODevice) Gyro() VectorSource {
	return &iioChannel{paths: d.gyroPaths, scale: d.gyroScale, unit: radToDeg}
}

// Accel returns a source reading linear acceleration in g.
func (d *IIODevice) Accel() VectorSource {
	return &iioChannel{paths: d.accelPaths, scale: d.accelScale, unit: 1.0 / gravityMS2}
}

type iioChannel struct {
	paths [3]string
	scale Vec3
	unit  float64
}

func (c *iioChannel) Read() (Vec3, error) {
	var raw [3]int64
	for i, p := range c.paths {
		v, err := readInt(p)
		if err != nil {
			return Vec3{}, err
		}
		raw[i] = v
	}
	s := c.scale.Array()
	var out [3]float64
	for i := range raw {
		out[i] = float64(raw[i]) * s[i] * c.unit
	}
	return FromArray(out), nil
}

func (c *iioChannel) Close() error { return nil }

func readInt(path string) (int64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty channel file %s", path)
	}
	v, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}

func readFloatIfExists(path string) (float64, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
