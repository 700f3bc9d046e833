// Package config provides configuration loading for daybook.
//
// Configuration is loaded from a YAML file and overridden by environment
// variables. See Load for precedence and variable mapping.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete daybook configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Journal JournalConfig `koanf:"journal"`
	Tasks   TasksConfig   `koanf:"tasks"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// JournalConfig holds journal persistence configuration.
type JournalConfig struct {
	// DataDir holds the per-date document files.
	// Default: ~/.config/daybook/journal
	DataDir string `koanf:"data_dir"`
}

// TasksConfig holds task directory configuration.
type TasksConfig struct {
	// DataDir holds tasks.json. Default: ~/.config/daybook
	DataDir string `koanf:"data_dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns production defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            7340,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	return nil
}
