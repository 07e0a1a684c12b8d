package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

const unitName = "compatctl.service"

const unitTemplate = `[Unit]
Description=compatctl motion and gamepad bridge
After=multi-user.target

[Service]
ExecStart=%s run
Restart=on-failure
RestartSec=2

[Install]
WantedBy=default.target
`

func unitPath() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join("/etc/systemd/system", unitName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "systemd", "user", unitName), nil
}

func install(logger *slog.Logger, exe string) error {
	path, err := unitPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	unit := fmt.Sprintf(unitTemplate, exe)
	if err := os.WriteFile(path, []byte(unit), 0o644); err != nil {
		return err
	}
	logger.Info("service unit written", "path", path)

	if err := systemctl("daemon-reload"); err != nil {
		logger.Warn("systemctl daemon-reload failed", "error", err)
	}
	if err := systemctl("enable", unitName); err != nil {
		return fmt.Errorf("enable service: %w", err)
	}
	logger.Info("service enabled", "unit", unitName)
	return nil
}

func uninstall(logger *slog.Logger) error {
	path, err := unitPath()
	if err != nil {
		return err
	}
	if err := systemctl("disable", unitName); err != nil {
		logger.Warn("systemctl disable failed", "error", err)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			logger.Info("service unit not installed", "path", path)
			return nil
		}
		return err
	}
	_ = systemctl("daemon-reload")
	logger.Info("service unit removed", "path", path)
	return nil
}

func systemctl(args ...string) error {
	if os.Geteuid() != 0 {
		args = append([]string{"--user"}, args...)
	}
	cmd := exec.Command("systemctl", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
