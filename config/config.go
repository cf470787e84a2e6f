// Package config loads stagehand settings from files, environment
// variables and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the runtime settings.
type Config struct {
	// GitBin is the git executable to invoke. Empty means "git" from PATH.
	GitBin string `mapstructure:"git_bin"`

	// Color controls styled output: "auto", "always" or "never".
	Color string `mapstructure:"color"`
}

// DefaultConfigDir returns the default configuration directory for
// stagehand. Uses XDG_CONFIG_HOME if set, otherwise falls back to
// ~/.config/stagehand.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stagehand")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stagehand")
}

// Load reads configuration from the given directory (config.yaml) and the
// STAGEHAND_* environment variables. A missing config file is not an
// error; the defaults apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetDefault("git_bin", "")
	v.SetDefault("color", "auto")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("stagehand")
	v.AutomaticEnv()
	_ = v.BindEnv("git_bin")
	_ = v.BindEnv("color")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("invalid color setting %q (want auto, always or never)", c.Color)
	}
}
