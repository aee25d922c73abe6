// Package config provides configuration file and environment variable support for sprout.
//
// Configuration priority (highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Config file (~/.sprout/config.toml)
//  4. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the sprout configuration.
type Config struct {
	// DB is the path to the database file.
	// Default: ~/.sprout/sprout.db
	DB string `toml:"db" json:"db"`

	// NoColor disables colored output.
	NoColor bool `toml:"no_color" json:"no_color"`

	// DefaultUser is the email of the user commands act as when --as is not given.
	DefaultUser string `toml:"default_user" json:"default_user"`

	// Timezone is the IANA zone used to display dates. Empty means local time.
	Timezone string `toml:"timezone" json:"timezone"`

	Backup BackupConfig `toml:"backup" json:"backup"`
	Server ServerConfig `toml:"server" json:"server"`
	Log    LogConfig    `toml:"log" json:"log"`
}

// BackupConfig controls the automatic rotating database backup.
type BackupConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`

	// Path is the backup directory. Empty means next to the database.
	Path string `toml:"path" json:"path"`

	// IntervalHours is the minimum age of the newest backup before another is taken.
	IntervalHours int `toml:"interval_hours" json:"interval_hours"`

	// MaxCount is how many backups are kept.
	MaxCount int `toml:"max_count" json:"max_count"`
}

// ServerConfig holds defaults for `sprout serve`.
type ServerConfig struct {
	Host string `toml:"host" json:"host"`
	Port int    `toml:"port" json:"port"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backup: BackupConfig{
			Enabled:       true,
			IntervalHours: 24,
			MaxCount:      5,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 18090,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sprout", "config.toml")
}

// Load loads configuration from the config file and environment variables.
func Load() (*Config, error) {
	return LoadFromPath(DefaultConfigPath())
}

// LoadFromPath loads configuration from a specific file path.
// Environment variables take precedence over file settings.
// Returns default config if the config file doesn't exist.
func LoadFromPath(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if _, err := toml.DecodeFile(configPath, cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides to the config.
func (c *Config) applyEnv() {
	if db := os.Getenv("SPROUT_DB"); db != "" {
		c.DB = db
	}
	// SPROUT_DB_PATH takes precedence over SPROUT_DB
	if dbPath := os.Getenv("SPROUT_DB_PATH"); dbPath != "" {
		c.DB = dbPath
	}

	// any value means true
	if _, ok := os.LookupEnv("SPROUT_NO_COLOR"); ok {
		c.NoColor = true
	}

	if user := os.Getenv("SPROUT_USER"); user != "" {
		c.DefaultUser = user
	}

	if tz := os.Getenv("SPROUT_TIMEZONE"); tz != "" {
		c.Timezone = tz
	}

	if level := os.Getenv("SPROUT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if port := os.Getenv("SPROUT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (expected text or json)", c.Log.Format)
	}
	if c.Backup.MaxCount < 0 {
		return fmt.Errorf("backup.max_count cannot be negative")
	}
	return nil
}

// Location returns the display location for dates.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetDB returns the database path; empty signals db.DefaultDBPath.
func (c *Config) GetDB() string {
	return c.DB
}

// SampleConfig returns a sample configuration file content.
func SampleConfig() string {
	return `# Sprout Configuration File
# Location: ~/.sprout/config.toml
#
# Configuration priority (highest to lowest):
#   1. Command-line flags
#   2. Environment variables (SPROUT_*)
#   3. This config file
#   4. Built-in defaults

# Path to the database file
# Default: ~/.sprout/sprout.db
# Environment: SPROUT_DB or SPROUT_DB_PATH (SPROUT_DB_PATH takes precedence)
# db = "/path/to/sprout.db"

# Disable colored output
# Environment: SPROUT_NO_COLOR (any value = true)
# no_color = false

# Email of the user commands act as (see 'sprout user add')
# Environment: SPROUT_USER
# default_user = "jon.snow@example.com"

# IANA timezone used to display dates; empty means local time
# Environment: SPROUT_TIMEZONE
# timezone = "Europe/London"

[backup]
# Take a rotating copy of the database before commands run
enabled = true
# path = "/path/to/backups"
interval_hours = 24
max_count = 5

[server]
host = "localhost"
# Environment: SPROUT_PORT
port = 18090

[log]
# debug, info, warn, error (Environment: SPROUT_LOG_LEVEL)
level = "info"
# text or json
format = "text"
`
}

// WriteConfigFile writes the sample config file to the specified path.
// Creates parent directories if needed.
func WriteConfigFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(SampleConfig()), 0644)
}
