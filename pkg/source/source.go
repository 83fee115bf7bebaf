// Package source defines how Mork databases are loaded into memory.
//
// Concrete sources live in pkg/sources/ subdirectories and register
// themselves by type name in their init() functions.
package source

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/morkxml/pkg/core"
)

// Source loads a complete database.
type Source interface {
	// Load reads the whole database into memory.
	Load(ctx context.Context) (*core.Database, error)

	// Close releases resources held by the source.
	Close() error
}

// Config selects and configures a source.
type Config struct {
	// Type is the registry name (yaml, sqlite, postgres, duckdb).
	// Empty means DetectType(Path).
	Type string `koanf:"type"`

	// Path is the input file.
	Path string `koanf:"path"`

	// DSN is a connection string for server databases. Overrides Path.
	DSN string `koanf:"dsn"`

	// Schema restricts SQL sources to one schema.
	Schema string `koanf:"schema"`

	// Encoding is the text encoding of file sources (default UTF-8).
	Encoding string `koanf:"encoding"`
}

// Location returns the DSN if set, else the path.
func (c Config) Location() string {
	if c.DSN != "" {
		return c.DSN
	}
	return c.Path
}

// DetectType guesses the source type from a path or DSN.
// It returns "" when nothing matches.
func DetectType(location string) string {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return "postgres"
	}
	switch filepath.Ext(lower) {
	case ".yaml", ".yml":
		return "yaml"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	case ".duckdb", ".ddb":
		return "duckdb"
	}
	return ""
}

// Open creates the configured source, detecting its type when unset.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Source, error) {
	if cfg.Type == "" {
		cfg.Type = DetectType(cfg.Location())
	}
	if cfg.Type == "" {
		return nil, &UnknownSourceError{Type: "", Location: cfg.Location(), Available: List()}
	}
	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownSourceError{Type: cfg.Type, Location: cfg.Location(), Available: List()}
	}
	return factory(ctx, cfg, logger)
}

// Load opens the configured source, loads it and closes it.
func Load(ctx context.Context, cfg Config, logger *slog.Logger) (*core.Database, error) {
	src, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return src.Load(ctx)
}
