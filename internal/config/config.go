// Package config loads the vsx configuration from ~/.config/vsx/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the vsx configuration.
type Config struct {
	// FreshnessWindow is the maximum snapshot age before a refresh is
	// attempted on read.
	FreshnessWindow Duration `toml:"freshness_window"`
	// RefreshWait bounds how long a read waits for an in-flight refresh
	// before falling back to the stale snapshot path.
	RefreshWait Duration `toml:"refresh_wait"`
	// RefreshInterval is the periodic background refresh cadence.
	RefreshInterval Duration `toml:"refresh_interval"`
	// MinScore is the per-token score floor for a match.
	MinScore int `toml:"min_score"`
	// SSHConfig overrides the SSH client config path. Empty means the
	// editor's remote.SSH.configFile setting, then ~/.ssh/config.
	SSHConfig string `toml:"ssh_config"`
	// ExtraDataDirs lists additional VS Code user-data directories to
	// probe besides the well-known variants.
	ExtraDataDirs []string `toml:"extra_data_dirs"`
	// Editors maps a variant name to an executable override,
	// e.g. codium = "/opt/vscodium/bin/codium".
	Editors map[string]string `toml:"editors"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		FreshnessWindow: Duration(30 * time.Second),
		RefreshWait:     Duration(2 * time.Second),
		RefreshInterval: Duration(5 * time.Minute),
		MinScore:        30,
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vsx", "config.toml"), nil
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the loaded values are usable.
func (c *Config) Validate() error {
	if c.FreshnessWindow <= 0 {
		return fmt.Errorf("freshness_window must be positive")
	}
	if c.RefreshWait <= 0 {
		return fmt.Errorf("refresh_wait must be positive")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive")
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min_score must be in [0,100], got %d", c.MinScore)
	}
	for _, dir := range c.ExtraDataDirs {
		if err := ValidatePath(dir, "extra_data_dirs"); err != nil {
			return err
		}
	}
	return ValidatePath(c.SSHConfig, "ssh_config")
}

// ValidatePath checks that the path is absolute or starts with ~.
// Relative paths (like "." or "..") are rejected.
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // not configured
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}
