// Package duckdb registers the DuckDB source.
package duckdb

import (
	"context"
	"log/slog"
	"strings"

	// duckdb database/sql driver
	_ "github.com/marcboeker/go-duckdb"

	"github.com/leapstack-labs/morkxml/pkg/source"
	"github.com/leapstack-labs/morkxml/pkg/sources/sqldb"
)

// Name is the registry name of this source.
const Name = "duckdb"

// Dialect lists base tables of one schema from information_schema.
var Dialect = sqldb.Dialect{
	Name:          Name,
	DefaultSchema: "main",
	ListTables: func(schema string) (string, []any) {
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = ? AND table_type = 'BASE TABLE'
			ORDER BY table_name`, []any{schema}
	},
	Qualify: true,
}

// DSN returns a read-only connection string for cfg.
func DSN(cfg source.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	if strings.Contains(cfg.Path, "?") {
		return cfg.Path
	}
	return cfg.Path + "?access_mode=read_only"
}

// Open opens the DuckDB file described by cfg.
func Open(ctx context.Context, cfg source.Config, logger *slog.Logger) (source.Source, error) {
	src, err := sqldb.Open(ctx, "duckdb", DSN(cfg), Dialect, cfg.Schema, logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func init() {
	source.Register(Name, Open)
}
