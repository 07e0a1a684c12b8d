package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Originalimoc/compatctl/internal/bridge"
	"github.com/Originalimoc/compatctl/internal/configpaths"
	"github.com/Originalimoc/compatctl/internal/imu"
	"github.com/Originalimoc/compatctl/internal/pad"
	"github.com/Originalimoc/compatctl/internal/profile"
	"github.com/Originalimoc/compatctl/internal/sink"
	"github.com/Originalimoc/compatctl/internal/telemetry"
)

// Run bridges the motion sensors and the physical gamepad onto a virtual
// DualShock 4 on the input bus.
type Run struct {
	BusAddr string `help:"Input bus daemon address" default:"127.0.0.1:3240" env:"COMPATCTL_BUS_ADDR"`

	IMUBackend string `name:"imu-backend" help:"Motion sensor backend: iio or mpu" default:"iio" enum:"iio,mpu" env:"COMPATCTL_IMU_BACKEND"`
	IMUName    string `name:"imu-name" help:"IIO device name to match (default: first device with motion channels)" env:"COMPATCTL_IMU_NAME"`
	I2CBus     string `name:"i2c-bus" help:"I2C bus for the mpu backend (default: first available)" env:"COMPATCTL_I2C_BUS"`

	PadName string `help:"Gamepad device name to match (default: first gamepad)" env:"COMPATCTL_PAD_NAME"`
	PadPath string `help:"Explicit evdev device path, overrides --pad-name" env:"COMPATCTL_PAD_PATH"`

	Profile      string `help:"Calibration profile path (YAML mount matrices)" env:"COMPATCTL_PROFILE"`
	WatchProfile bool   `help:"Reload the profile when the file changes" default:"true" negatable:"" env:"COMPATCTL_WATCH_PROFILE"`

	ShareButton    bool          `help:"Map the physical share button into reports" env:"COMPATCTL_SHARE_BUTTON"`
	ReportInterval time.Duration `help:"Report emission interval" default:"1250us" env:"COMPATCTL_REPORT_INTERVAL"`
	PollInterval   time.Duration `help:"Gamepad poll interval" default:"3ms" env:"COMPATCTL_POLL_INTERVAL"`

	Broker string `help:"MQTT broker URL for motion telemetry (default: disabled)" env:"COMPATCTL_MQTT_BROKER"`
	Topic  string `help:"MQTT telemetry topic" env:"COMPATCTL_MQTT_TOPIC"`
}

// Run is called by Kong when the run command is executed.
func (c *Run) Run(logger *slog.Logger) error {
	gyro, accel, closeIMU, err := c.openMotion(logger)
	if err != nil {
		return err
	}
	defer closeIMU()

	var padSrc bridge.PadSource
	var fb bridge.Feedback
	if dev := c.openPad(logger); dev != nil {
		defer dev.Close()
		padSrc, fb = dev, dev
	}

	busSink, err := sink.Connect(logger, c.BusAddr)
	if err != nil {
		return err
	}
	defer busSink.Close()

	cfg := bridge.Config{
		ReportInterval:  c.ReportInterval,
		PadPollInterval: c.PollInterval,
		ShareButton:     c.ShareButton,
	}

	if c.Broker != "" {
		pub, err := telemetry.Connect(logger, c.Broker, c.Topic)
		if err != nil {
			logger.Warn("telemetry disabled", "error", err)
		} else {
			defer pub.Close()
			cfg.SampleTap = pub.Publish
		}
	}

	b := bridge.New(logger, cfg, gyro, accel, padSrc, fb, busSink)

	profilePath := c.Profile
	if profilePath == "" {
		profilePath = configpaths.DefaultProfilePath()
	}
	prof, err := profile.Load(profilePath)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	b.SetMounts(prof.Mounts())
	if c.WatchProfile {
		w, err := profile.Watch(logger, profilePath, func(p *profile.Profile) {
			b.SetMounts(p.Mounts())
		})
		if err != nil {
			logger.Warn("profile watch unavailable", "error", err)
		} else {
			defer w.Close()
		}
	}

	logger.Info("bridge running",
		"imu", c.IMUBackend,
		"pad", padName(padSrc),
		"bus", c.BusAddr,
		"interval", c.ReportInterval)
	b.Run()
	return nil
}

func (c *Run) openMotion(logger *slog.Logger) (gyro, accel imu.VectorSource, closer func(), err error) {
	switch c.IMUBackend {
	case "mpu":
		m, err := imu.OpenMPU(c.I2CBus)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open mpu: %w", err)
		}
		logger.Info("motion source ready", "backend", "mpu", "bus", c.I2CBus)
		return m.Gyro(), m.Accel(), func() { _ = m.Close() }, nil
	default:
		base, err := imu.FindIIODevice(c.IMUName)
		if err != nil {
			return nil, nil, nil, err
		}
		d, err := imu.OpenIIO(base)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open iio: %w", err)
		}
		logger.Info("motion source ready", "backend", "iio", "device", d.Name, "base", d.Base)
		return d.Gyro(), d.Accel(), func() {}, nil
	}
}

// openPad is best-effort. Without a gamepad the bridge still emits reports
// with motion data and released controls.
func (c *Run) openPad(logger *slog.Logger) *pad.Device {
	path := c.PadPath
	if path == "" {
		p, err := pad.Find(c.PadName)
		if err != nil {
			logger.Warn("no gamepad found, running motion-only", "error", err)
			return nil
		}
		path = p
	}
	dev, err := pad.Open(path)
	if err != nil {
		logger.Warn("gamepad open failed, running motion-only", "path", path, "error", err)
		return nil
	}
	logger.Info("gamepad ready", "path", path, "name", dev.Name())
	return dev
}

func padName(p bridge.PadSource) string {
	if d, ok := p.(*pad.Device); ok {
		return d.Name()
	}
	return "none"
}
