// Package config provides configuration management for the morkxml CLI.
package config

import (
	"maps"

	"github.com/leapstack-labs/morkxml/pkg/source"
)

// Config holds all CLI configuration options.
type Config struct {
	Out       string            `koanf:"out"`
	Filter    string            `koanf:"filter"`
	Source    source.Config     `koanf:"source"`
	Args      map[string]string `koanf:"args"`
	LogLevel  string            `koanf:"log_level"`
	LogFormat string            `koanf:"log_format"`
	Verbose   bool              `koanf:"verbose"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOut       = "mork.xml"
	DefaultFilter    = "xml"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "auto" // Auto-detect: TTY=text, non-TTY=json
)

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Out:       DefaultOut,
		Filter:    DefaultFilter,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// FilterArgs returns the arguments passed to the output filter.
// Out is used for the "out" argument unless Args sets it.
func (c *Config) FilterArgs() map[string]string {
	args := make(map[string]string, len(c.Args)+1)
	maps.Copy(args, c.Args)
	if _, ok := args["out"]; !ok && c.Out != "" {
		args["out"] = c.Out
	}
	return args
}
