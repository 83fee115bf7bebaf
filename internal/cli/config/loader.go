package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "MORKXML_"

// flagKeys maps flag names to config keys. Flags not listed are not
// configuration (e.g. --config, --watch).
var flagKeys = map[string]string{
	"out":        "out",
	"filter":     "filter",
	"source":     "source.type",
	"dsn":        "source.dsn",
	"schema":     "source.schema",
	"encoding":   "source.encoding",
	"arg":        "args",
	"log-level":  "log_level",
	"log-format": "log_format",
	"verbose":    "verbose",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > morkxml.yaml > morkxml.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"morkxml.yaml", "morkxml.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey transforms MORKXML_SOURCE_DSN -> source.dsn and
// MORKXML_ARGS_OUT -> args.out.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, group := range []string{"source_", "args_"} {
		if rest, ok := strings.CutPrefix(key, group); ok && rest != "" {
			return strings.TrimSuffix(group, "_") + "." + rest
		}
	}
	return key
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"out":        def.Out,
		"filter":     def.Filter,
		"log_level":  def.LogLevel,
		"log_format": def.LogFormat,
		"verbose":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment variables (MORKXML_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (only those explicitly set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			if f.Value.Type() == "stringToString" {
				// Merge with file and env args instead of replacing them.
				m, _ := flags.GetStringToString(f.Name)
				args := make(map[string]any, len(m))
				for name, v := range m {
					args[name] = v
				}
				return key, args
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type (
	configKey struct{}
	loggerKey struct{}
)

// NewContext returns a context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from the command context.
// It returns the defaults when none is stored.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return Default()
}
