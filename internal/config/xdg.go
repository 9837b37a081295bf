// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// configNames are tried in order; the first existing file wins.
var configNames = []string{"config.toml", "config.yaml", "config.yml"}

// DefaultConfigPath returns the config file in the XDG config dir.
// config.toml is preferred, then config.yaml and config.yml; when none
// exists the TOML path is returned.
func DefaultConfigPath() string {
	return ResolveConfigPath(filepath.Join(XDGConfigHome(), "fightlog"))
}

// ResolveConfigPath returns the first existing config file in dir, or dir/config.toml.
func ResolveConfigPath(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, configNames[0])
}

// DefaultLogPath returns where the dashboard writes its log in verbose mode.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), "fightlog", "fightlog.log")
}
