// Package sqldb loads Mork databases from SQL databases through database/sql.
//
// Each SQL table becomes a table keyed by (schema, table name). Its rows are
// keyed by (table name, ordinal) and carry every non-NULL column as a cell.
// The metatable records the row count and one meta-row per column.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/morkxml/pkg/core"
)

// ColumnNamespace is the namespace of column meta-rows.
const ColumnNamespace = "column"

// Dialect holds the database-specific SQL a Source needs.
type Dialect struct {
	// Name identifies the dialect in logs.
	Name string

	// DefaultSchema is used when no schema is configured.
	DefaultSchema string

	// ListTables returns a query yielding one table name per row, ordered.
	ListTables func(schema string) (query string, args []any)

	// Qualify reports whether table references need the schema prefix.
	Qualify bool
}

// Source reads every table of a SQL database.
type Source struct {
	db      *sql.DB
	dialect Dialect
	schema  string
	logger  *slog.Logger
}

// New creates a source over an open connection. The source owns db and
// closes it in Close. An empty schema uses the dialect default.
// If logger is nil, a discard logger is used.
func New(db *sql.DB, d Dialect, schema string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if schema == "" {
		schema = d.DefaultSchema
	}
	return &Source{db: db, dialect: d, schema: schema, logger: logger}
}

// Open connects with the given database/sql driver and verifies the connection.
func Open(ctx context.Context, driver, dsn string, d Dialect, schema string, logger *slog.Logger) (*Source, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", d.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", d.Name, err)
	}
	return New(db, d, schema, logger), nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Debug("closing database connection")
	return s.db.Close()
}

// Load implements source.Source.
func (s *Source) Load(ctx context.Context) (*core.Database, error) {
	names, err := s.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	db := core.NewDatabase()
	for _, name := range names {
		table, meta, err := s.loadTable(ctx, name)
		if err != nil {
			return nil, err
		}
		key := core.Key{Namespace: s.schema, ID: name}
		db.AddTable(key, table)
		db.SetMetaTable(key, meta)
		s.logger.Debug("loaded table", slog.String("table", name), slog.Int("rows", table.Len()))
	}
	return db, nil
}

func (s *Source) tableNames(ctx context.Context) ([]string, error) {
	query, args := s.dialect.ListTables(s.schema)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

func (s *Source) loadTable(ctx context.Context, name string) (*core.Table, *core.MetaTable, error) {
	ref := QuoteIdent(name)
	if s.dialect.Qualify {
		ref = QuoteIdent(s.schema) + "." + ref
	}
	//nolint:gosec // identifiers are quoted
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+ref)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query table %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}

	table := core.NewTable()
	values := make([]any, len(types))
	ptrs := make([]any, len(types))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row of %s: %w", name, err)
		}
		row := &core.Row{}
		for i, v := range values {
			if v == nil {
				continue
			}
			row.Set(types[i].Name(), FormatValue(v))
		}
		table.Append(core.Key{Namespace: name, ID: strconv.Itoa(table.Len() + 1)}, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating %s: %w", name, err)
	}

	meta := core.NewMetaTable()
	meta.Cells.Set("row_count", strconv.Itoa(table.Len()))
	for i, ct := range types {
		meta.AppendRow(core.Key{Namespace: ColumnNamespace, ID: ct.Name()}, core.NewRow(
			core.Cell{Column: "position", Value: strconv.Itoa(i + 1)},
			core.Cell{Column: "type", Value: ct.DatabaseTypeName()},
		))
	}
	return table, meta, nil
}

// QuoteIdent quotes a SQL identifier with double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// FormatValue renders a scanned column value as cell text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}
