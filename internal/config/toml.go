// Package config provides configuration helpers and TOML/YAML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Parse   ParseConfig   `toml:"parse" yaml:"parse"`
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Palette PaletteConfig `toml:"palette" yaml:"palette"`
}

// ParseConfig maps the parser thresholds, in seconds.
type ParseConfig struct {
	Window      *int64 `toml:"window" yaml:"window"`
	MinDuration *int64 `toml:"min-duration" yaml:"min-duration"`
	Aggregate   *bool  `toml:"aggregate" yaml:"aggregate"`
}

// RenderConfig maps chart output settings.
type RenderConfig struct {
	Width  *int  `toml:"width" yaml:"width"`
	Height *int  `toml:"height" yaml:"height"`
	Color  *bool `toml:"color" yaml:"color"`
}

// PaletteConfig maps per-second chart colours: value first, absorbed second.
type PaletteConfig struct {
	DamageReceived []string `toml:"damage-received" yaml:"damage-received"`
	HealReceived   []string `toml:"heal-received" yaml:"heal-received"`
	DamageEmitted  []string `toml:"damage-emitted" yaml:"damage-emitted"`
	HealEmitted    []string `toml:"heal-emitted" yaml:"heal-emitted"`
}

// LoadConfig reads a config from the given path. Missing file is not an error.
// Paths ending in .yaml or .yml are read as YAML, anything else as TOML.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if c.Render.Width != nil && *c.Render.Width < 0 {
		return fmt.Errorf("render.width must be >= 0")
	}
	if c.Render.Height != nil && *c.Render.Height < 0 {
		return fmt.Errorf("render.height must be >= 0")
	}
	for name, p := range map[string][]string{
		"damage-received": c.Palette.DamageReceived,
		"heal-received":   c.Palette.HealReceived,
		"damage-emitted":  c.Palette.DamageEmitted,
		"heal-emitted":    c.Palette.HealEmitted,
	} {
		if len(p) > 2 {
			return fmt.Errorf("palette.%s takes at most 2 colours", name)
		}
	}
	return nil
}
