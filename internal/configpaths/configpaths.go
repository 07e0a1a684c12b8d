// Package configpaths resolves where compatctl looks for its configuration
// and calibration files.
package configpaths

import (
	"os"
	"path/filepath"
)

const appDir = "compatctl"

// DefaultConfigDir returns the per-user configuration directory. Root
// services use /etc/compatctl so a system unit can find its config.
func DefaultConfigDir() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join(string(os.PathSeparator), "etc", appDir), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// ConfigCandidatePaths returns the JSON, YAML, and TOML config file paths to
// try, lowest priority first. userCfg, when set, is appended to the list
// matching its extension so an explicit --config wins over the defaults.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	var dirs []string
	if d, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, d)
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}

	for _, d := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(d, appDir+".json"))
		yamlPaths = append(yamlPaths, filepath.Join(d, appDir+".yaml"), filepath.Join(d, appDir+".yml"))
		tomlPaths = append(tomlPaths, filepath.Join(d, appDir+".toml"))
	}

	if userCfg != "" {
		switch filepath.Ext(userCfg) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userCfg)
		case ".toml":
			tomlPaths = append(tomlPaths, userCfg)
		default:
			jsonPaths = append(jsonPaths, userCfg)
		}
	}
	return jsonPaths, yamlPaths, tomlPaths
}

// DefaultProfilePath returns where the calibration profile is looked up when
// no explicit path is given.
func DefaultProfilePath() string {
	d, err := DefaultConfigDir()
	if err != nil {
		return "profile.yaml"
	}
	return filepath.Join(d, "profile.yaml")
}
