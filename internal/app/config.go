package app

import (
	"errors"
	"time"
)

// Built-in fallbacks, used when neither a flag nor a profile sets a value.
const (
	DefaultPort = "/dev/ttyACM0"
	DefaultBaud = 9600
)

// Config holds all the necessary configuration for an App instance to run.
// Port, Baud and Settle are left zero-valued when the user did not set them
// explicitly; Run resolves them against the profile and the defaults.
type Config struct {
	ScriptPath  string // command script file
	ProfilePath string // optional HCL profile file or directory

	Port   string
	Baud   int
	Settle time.Duration

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("ScriptPath is a required configuration field and cannot be empty")
	}
	if cfg.Baud < 0 {
		return nil, errors.New("Baud must not be negative")
	}
	if cfg.Settle < 0 {
		return nil, errors.New("Settle must not be negative")
	}
	return &cfg, nil
}
