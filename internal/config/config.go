package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value.
const (
	DefaultAddr          = ":8086"
	DefaultDSN           = "data/automation.db"
	DefaultLogLevel      = "info"
	DefaultSweepInterval = 10 * time.Minute
)

// Config is the automationd service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Sweep    SweepConfig    `yaml:"sweep"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Listen address.
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // Postgres DSN or SQLite path.
}

// RedisConfig holds optional redis settings for the shared cooldown guard.
type RedisConfig struct {
	Addr     string `yaml:"addr"`     // host:port; empty disables redis.
	Password string `yaml:"password"` // Optional password.
	DB       int    `yaml:"db"`       // Database index.
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`        // logrus level name.
	File       string `yaml:"file"`         // Rotating log file; empty logs to stdout.
	MaxSizeMB  int    `yaml:"max_size_mb"`  // Rotation size threshold.
	MaxBackups int    `yaml:"max_backups"`  // Rotated files kept.
	MaxAgeDays int    `yaml:"max_age_days"` // Rotated file retention.
}

// SweepConfig controls the background rule sweep.
type SweepConfig struct {
	Enabled  bool   `yaml:"enabled"`  // Whether the background sweep runs.
	Interval string `yaml:"interval"` // Sweep period, e.g. "10m".
	Cooldown string `yaml:"cooldown"` // Per-(rule,record) suppression window; empty disables it.
}

// Load reads the YAML config file at path and applies defaults. A missing
// file yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if trimmed := strings.TrimSpace(path); trimmed != "" {
		data, errRead := os.ReadFile(trimmed)
		if errRead != nil && !os.IsNotExist(errRead) {
			return nil, fmt.Errorf("config: read %s: %w", trimmed, errRead)
		}
		if errRead == nil {
			if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
				return nil, fmt.Errorf("config: parse %s: %w", trimmed, errUnmarshal)
			}
		}
	}

	cfg.applyDefaults()
	if errValidate := cfg.validate(); errValidate != nil {
		return nil, errValidate
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = DefaultAddr
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		c.Database.DSN = DefaultDSN
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if strings.TrimSpace(c.Sweep.Interval) == "" {
		c.Sweep.Interval = DefaultSweepInterval.String()
	}
}

func (c *Config) validate() error {
	if _, errParse := c.SweepInterval(); errParse != nil {
		return errParse
	}
	if _, errParse := c.SweepCooldown(); errParse != nil {
		return errParse
	}
	return nil
}

// SweepInterval returns the parsed sweep period.
func (c *Config) SweepInterval() (time.Duration, error) {
	interval, errParse := time.ParseDuration(strings.TrimSpace(c.Sweep.Interval))
	if errParse != nil {
		return 0, fmt.Errorf("config: invalid sweep interval %q: %w", c.Sweep.Interval, errParse)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("config: sweep interval must be positive, got %q", c.Sweep.Interval)
	}
	return interval, nil
}

// SweepCooldown returns the parsed cooldown window; zero means disabled.
func (c *Config) SweepCooldown() (time.Duration, error) {
	trimmed := strings.TrimSpace(c.Sweep.Cooldown)
	if trimmed == "" {
		return 0, nil
	}
	cooldown, errParse := time.ParseDuration(trimmed)
	if errParse != nil {
		return 0, fmt.Errorf("config: invalid sweep cooldown %q: %w", c.Sweep.Cooldown, errParse)
	}
	if cooldown < 0 {
		return 0, fmt.Errorf("config: sweep cooldown must not be negative, got %q", c.Sweep.Cooldown)
	}
	return cooldown, nil
}
