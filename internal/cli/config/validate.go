package config

import (
	"fmt"
	"log/slog"
	"strings"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Filter == "" {
		return fmt.Errorf("filter is required")
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("invalid log_level %q\nHint: Use one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q\nHint: Use one of auto, text, json", c.LogFormat)
	}
	return nil
}

// Level returns the configured log level. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	if l, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}
