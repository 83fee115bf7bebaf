// Package sqlite registers the SQLite source.
package sqlite

import (
	"context"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/morkxml/pkg/source"
	"github.com/leapstack-labs/morkxml/pkg/sources/sqldb"

	// sqlite driver
	_ "modernc.org/sqlite"
)

// Name is the registry name of this source.
const Name = "sqlite"

// Dialect lists user tables from sqlite_master. SQLite has a single
// "main" schema for an opened file.
var Dialect = sqldb.Dialect{
	Name:          Name,
	DefaultSchema: "main",
	ListTables: func(string) (string, []any) {
		return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name", nil
	},
}

// DSN returns a read-only connection string for cfg.
func DSN(cfg source.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	if strings.Contains(cfg.Path, "?") {
		return cfg.Path
	}
	return cfg.Path + "?mode=ro"
}

// Open opens the SQLite database described by cfg.
func Open(ctx context.Context, cfg source.Config, logger *slog.Logger) (source.Source, error) {
	src, err := sqldb.Open(ctx, "sqlite", DSN(cfg), Dialect, "", logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func init() {
	source.Register(Name, Open)
}
