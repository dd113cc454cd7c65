package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds isbnscan configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server" json:"server"`
	Scan   ScanCfg   `mapstructure:"scan" yaml:"scan" json:"scan"`
	Log    LogCfg    `mapstructure:"log" yaml:"log" json:"log"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host         string `mapstructure:"host" yaml:"host" json:"host"`
	Port         string `mapstructure:"port" yaml:"port" json:"port"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"` // Request body limit
}

// ScanCfg configures batch scanning.
type ScanCfg struct {
	Workers    int      `mapstructure:"workers" yaml:"workers" json:"workers"`          // 0 means one per CPU
	QueueSize  int      `mapstructure:"queue_size" yaml:"queue_size" json:"queue_size"` // 0 means 2x workers
	Extensions []string `mapstructure:"extensions" yaml:"extensions" json:"extensions"`
	ReportDir  string   `mapstructure:"report_dir" yaml:"report_dir" json:"report_dir"` // Supports ${ENV_VAR}; empty uses {home}/reports
}

// LogCfg configures logging.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`    // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text, json
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host:         "127.0.0.1",
			Port:         "8280",
			MaxBodyBytes: 4 << 20,
		},
		Scan: ScanCfg{
			Workers:    0,
			QueueSize:  0,
			Extensions: []string{".txt", ".hocr", ".html"},
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
	}
}

// Addr returns the host:port the server listens on.
func (c ServerCfg) Addr() string {
	return c.Host + ":" + c.Port
}

// URL returns the base URL clients use to reach the server.
func (c ServerCfg) URL() string {
	host := c.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + host + ":" + c.Port
}

// SlogLevel parses the configured level.
func (c LogCfg) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Level)
	}
	return level, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, fmt.Errorf("%w: server.port is required", ErrInvalidConfig))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalidConfig))
	}
	if c.Scan.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: scan.workers must not be negative", ErrInvalidConfig))
	}
	if c.Scan.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("%w: scan.queue_size must not be negative", ErrInvalidConfig))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, c.Log.Format))
	}

	return errors.Join(errs...)
}
