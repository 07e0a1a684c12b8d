// Package profile loads the optional calibration profile: mounting matrices
// describing the sensor orientation in the device. The file is watched and
// re-applied live, so a profile edit takes effect without restarting.
// compatctl only ever reads the file.
package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/Originalimoc/compatctl/internal/imu"
)

// Matrix is one mount matrix in profile form: three rows of three numbers.
type Matrix struct {
	X []float64 `yaml:"x"`
	Y []float64 `yaml:"y"`
	Z []float64 `yaml:"z"`
}

func (m Matrix) valid() bool {
	return len(m.X) == 3 && len(m.Y) == 3 && len(m.Z) == 3
}

func (m Matrix) mount() imu.MountMatrix {
	return imu.MountMatrix{
		X: imu.Vec3{X: m.X[0], Y: m.X[1], Z: m.X[2]},
		Y: imu.Vec3{X: m.Y[0], Y: m.Y[1], Z: m.Y[2]},
		Z: imu.Vec3{X: m.Z[0], Y: m.Z[1], Z: m.Z[2]},
	}
}

// Profile is the parsed calibration file. Missing sections keep the built-in
// Legion Go defaults.
type Profile struct {
	GyroMount  Matrix `yaml:"gyro_mount"`
	AccelMount Matrix `yaml:"accel_mount"`
}

// Load parses the profile at path. A missing file is not an error: the
// defaults apply.
func Load(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Mounts returns the configured mount matrices, falling back to the Legion
// Go orientation for any section the profile does not carry.
func (p *Profile) Mounts() (gyro, accel imu.MountMatrix) {
	gyro, accel = imu.LegionGoGyro, imu.LegionGoAccel
	if p.GyroMount.valid() {
		gyro = p.GyroMount.mount()
	}
	if p.AccelMount.valid() {
		accel = p.AccelMount.mount()
	}
	return gyro, accel
}

// Watch reloads the profile whenever it changes and hands the result to
// apply. The watcher lives for the process lifetime; editors that
// rename-replace are covered by watching the parent directory.
func Watch(logger *slog.Logger, path string, apply func(*Profile)) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("profile watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				p, err := Load(path)
				if err != nil {
					logger.Warn("profile reload failed", "error", err)
					continue
				}
				logger.Info("profile reloaded", "path", path)
				apply(p)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("profile watch error", "error", err)
			}
		}
	}()
	return w, nil
}
