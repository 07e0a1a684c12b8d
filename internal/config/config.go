// Package config defines the CLI structure and configuration for compatctl.
package config

import (
	"github.com/Originalimoc/compatctl/internal/cmd"
)

type Log struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"COMPATCTL_LOG_LEVEL"`
	File  string `help:"Log file path (default: none; logs only to console)" env:"COMPATCTL_LOG_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Config string `help:"Explicit config file path" env:"COMPATCTL_CONFIG"`

	Run       cmd.Run       `cmd:"" default:"withargs" help:"Bridge motion sensors and gamepad onto a virtual DualShock 4"`
	List      cmd.List      `cmd:"" help:"List discovered motion sensors and gamepads"`
	Install   cmd.Install   `cmd:"" help:"Install the bridge as a systemd service"`
	Uninstall cmd.Uninstall `cmd:"" help:"Remove the systemd service"`
}
