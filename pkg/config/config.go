// Package config provides TOML configuration loading for rwhotools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration structure.
type Config struct {
	Spool    SpoolConfig  `toml:"spool"`
	Report   ReportConfig `toml:"report"`
	LogLevel string       `toml:"log_level"`
}

// SpoolConfig says where the status snapshots live.
type SpoolConfig struct {
	Dir    string `toml:"dir"`
	Prefix string `toml:"prefix"`
}

// ReportConfig holds the thresholds shared by ruptime and rwho.
type ReportConfig struct {
	IdleThreshold string `toml:"idle_threshold"`
	DownThreshold string `toml:"down_threshold"`
	MaxUsers      int    `toml:"max_users"`
}

// ParseIdleThreshold parses the idle cut-off for counting a session as a user.
func (r *ReportConfig) ParseIdleThreshold() (time.Duration, error) {
	if r.IdleThreshold == "" {
		return time.Hour, nil
	}
	return parsePositive("idle_threshold", r.IdleThreshold)
}

// ParseDownThreshold parses how stale a snapshot may get before its host is down.
func (r *ReportConfig) ParseDownThreshold() (time.Duration, error) {
	if r.DownThreshold == "" {
		return 11 * time.Minute, nil
	}
	return parsePositive("down_threshold", r.DownThreshold)
}

func parsePositive(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, s)
	}
	return d, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a TOML config file, applying defaults for unset values.
// A missing file is not an error: the tools work unconfigured.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	cfg.Spool.Dir = ExpandPath(cfg.Spool.Dir)
	return cfg, nil
}

// ExpandPath expands tilde (~) to the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		return path
	}
	if path == "~" {
		return usr.HomeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(usr.HomeDir, path[2:])
	}
	return path
}

func applyDefaults(cfg *Config) {
	if cfg.Spool.Dir == "" {
		cfg.Spool.Dir = "/var/spool/rwho"
	}
	if cfg.Spool.Prefix == "" {
		cfg.Spool.Prefix = "whod."
	}

	if cfg.Report.IdleThreshold == "" {
		cfg.Report.IdleThreshold = "1h"
	}
	if cfg.Report.DownThreshold == "" {
		cfg.Report.DownThreshold = "11m"
	}
	if cfg.Report.MaxUsers == 0 {
		cfg.Report.MaxUsers = 1000
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
}
