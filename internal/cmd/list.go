package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/Originalimoc/compatctl/internal/imu"
	"github.com/Originalimoc/compatctl/internal/pad"
)

// List prints the discovered motion sensors and gamepads.
type List struct{}

// Run is called by Kong when the list command is executed.
func (c *List) Run(logger *slog.Logger) error {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	fmt.Fprintln(w, "MOTION SENSORS (IIO)")
	fmt.Fprintln(w, "PATH\tNAME\tGYRO\tACCEL\tGYRO-SCALE\tACCEL-SCALE")
	sensors, err := imu.ListIIODevices()
	if err != nil {
		logger.Warn("iio enumeration failed", "error", err)
	}
	for _, s := range sensors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\n",
			s.Base, s.Name, yesNo(s.HasGyro), yesNo(s.HasAccel), s.GyroScale, s.AccelScale)
	}
	if len(sensors) == 0 {
		fmt.Fprintln(w, "(none)")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "INPUT DEVICES (evdev)")
	fmt.Fprintln(w, "PATH\tNAME\tGAMEPAD")
	pads, err := pad.List()
	if err != nil {
		logger.Warn("evdev enumeration failed", "error", err)
	}
	for _, p := range pads {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Path, p.Name, yesNo(p.Gamepad))
	}
	if len(pads) == 0 {
		fmt.Fprintln(w, "(none)")
	}

	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
