// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Socket configuration: struct-tag defaults, YAML file overlay, validation.

package control

import (
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-rx/api"
)

// Config holds parameters immutable for a socket's lifetime.
type Config struct {
	Capacity   int           `yaml:"capacity" default:"5"`     // number of ring slots
	FrameSize  int           `yaml:"frame_size" default:"5"`   // bytes per slot frame
	UseMmap    bool          `yaml:"use_mmap" default:"true"`  // map the arena where supported
	StaleAfter time.Duration `yaml:"stale_after"`              // 0 keeps leaked slots forever
	TraceDepth uint32        `yaml:"trace_depth" default:"64"` // slot events retained, 0 disables
	LogLevel   string        `yaml:"log_level" default:"info"` // logrus level name
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("control: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("control: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ring geometry and the log level.
func (c *Config) Validate() error {
	if c.Capacity < 1 {
		return api.NewError(api.ErrCodeInvalidArgument, "capacity must be >= 1").
			WithContext("capacity", c.Capacity)
	}
	if c.FrameSize < 1 {
		return api.NewError(api.ErrCodeInvalidArgument, "frame size must be >= 1").
			WithContext("frame_size", c.FrameSize)
	}
	if c.StaleAfter < 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "stale_after must not be negative").
			WithContext("stale_after", c.StaleAfter)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return api.NewError(api.ErrCodeInvalidArgument, "invalid log level").
			WithContext("log_level", c.LogLevel)
	}
	return nil
}

// NewLogger creates a configured logger instance.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger
}
