// Package config loads the demonstration host configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds host settings. Zero fields are filled from [Default].
type Config struct {
	// Options are "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
	// Options are "text", "json".
	LogFormat string `yaml:"log_format"`
	// Attach a call stack to leak reports.
	Backtrace bool `yaml:"backtrace"`
	// Attach a guard to every variant that pushes an entry, not only
	// errcontext_detect.
	Guard bool `yaml:"guard"`
	// Byte written over reclaimed node storage after a call returns.
	ClobberPattern int `yaml:"clobber_pattern"`
	// Size of the padding area placed in front of a call's frame.
	PaddingBytes int `yaml:"padding_bytes"`
	// Number of calls run concurrently by RunMany.
	Parallel int `yaml:"parallel"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "text",
		ClobberPattern: 0x7f,
		PaddingBytes:   1000,
		Parallel:       4,
	}
}

// Load reads a YAML file. An empty path yields [Default].
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(b)
}

// Parse decodes YAML on top of [Default] and validates the result.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalid, c.LogFormat)
	}

	if c.ClobberPattern < 0 || c.ClobberPattern > 0xff {
		return fmt.Errorf("%w: clobber_pattern %d out of byte range", ErrInvalid, c.ClobberPattern)
	}
	if c.PaddingBytes < 0 {
		return fmt.Errorf("%w: padding_bytes %d", ErrInvalid, c.PaddingBytes)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("%w: parallel %d", ErrInvalid, c.Parallel)
	}

	return nil
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
}

// NewLogger builds a logger writing to w.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}
