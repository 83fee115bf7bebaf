// Package postgres registers the PostgreSQL source.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	// pgx database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/leapstack-labs/morkxml/pkg/source"
	"github.com/leapstack-labs/morkxml/pkg/sources/sqldb"
)

// Name is the registry name of this source.
const Name = "postgres"

// Dialect lists base tables of one schema from information_schema.
var Dialect = sqldb.Dialect{
	Name:          Name,
	DefaultSchema: "public",
	ListTables: func(schema string) (string, []any) {
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = $1 AND table_type = 'BASE TABLE'
			ORDER BY table_name`, []any{schema}
	},
	Qualify: true,
}

// Open connects to the server named by cfg.DSN (or cfg.Path).
func Open(ctx context.Context, cfg source.Config, logger *slog.Logger) (source.Source, error) {
	dsn := cfg.Location()
	if dsn == "" {
		return nil, fmt.Errorf("postgres source requires a DSN")
	}
	src, err := sqldb.Open(ctx, "pgx", dsn, Dialect, cfg.Schema, logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func init() {
	source.Register(Name, Open)
}
