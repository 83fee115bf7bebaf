package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/morkxml/pkg/core"
)

var testDialect = Dialect{
	Name:          "test",
	DefaultSchema: "public",
	ListTables: func(schema string) (string, []any) {
		return "SELECT table_name FROM tables WHERE schema = ?", []any{schema}
	},
	Qualify: true,
}

// columns builds result rows with typed column definitions, which
// ColumnTypes needs.
func columns(names ...string) *sqlmock.Rows {
	defs := make([]*sqlmock.Column, len(names))
	for i, n := range names {
		defs[i] = sqlmock.NewColumn(n).OfType("TEXT", "")
	}
	return sqlmock.NewRowsWithColumnDefinition(defs...)
}

func newMockSource(t *testing.T, schema string) (*Source, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, testDialect, schema, nil), mock
}

func TestSource_Load(t *testing.T) {
	src, mock := newMockSource(t, "")

	mock.ExpectQuery("SELECT table_name FROM tables WHERE schema = ?").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("people").AddRow("empty"))

	mock.ExpectQuery(`SELECT * FROM "public"."people"`).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("id").OfType("INTEGER", int64(0)),
			sqlmock.NewColumn("name").OfType("TEXT", ""),
		).
			AddRow(int64(2), "A & B").
			AddRow(int64(1), nil))

	mock.ExpectQuery(`SELECT * FROM "public"."empty"`).
		WillReturnRows(columns("x"))

	db, err := src.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	tables := db.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, core.Key{Namespace: "public", ID: "people"}, tables[0].Key)
	assert.Equal(t, core.Key{Namespace: "public", ID: "empty"}, tables[1].Key)

	rows := tables[0].Table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, core.Key{Namespace: "people", ID: "1"}, rows[0].Key)
	assert.Equal(t, []core.Cell{{Column: "id", Value: "2"}, {Column: "name", Value: "A & B"}}, rows[0].Row.Cells())
	assert.Equal(t, core.Key{Namespace: "people", ID: "2"}, rows[1].Key)
	assert.Equal(t, []core.Cell{{Column: "id", Value: "1"}}, rows[1].Row.Cells(), "NULL cells are skipped")

	meta, ok := db.MetaTable(tables[0].Key)
	require.True(t, ok)
	count, _ := meta.Cells.Get("row_count")
	assert.Equal(t, "2", count)
	require.Len(t, meta.Rows, 2)
	assert.Equal(t, core.Key{Namespace: ColumnNamespace, ID: "id"}, meta.Rows[0].Key)
	typ, _ := meta.Rows[0].Row.Get("type")
	assert.Equal(t, "INTEGER", typ)
	pos, _ := meta.Rows[1].Row.Get("position")
	assert.Equal(t, "2", pos)

	emptyMeta, ok := db.MetaTable(tables[1].Key)
	require.True(t, ok)
	count, _ = emptyMeta.Cells.Get("row_count")
	assert.Equal(t, "0", count)
}

func TestSource_LoadUnqualified(t *testing.T) {
	d := testDialect
	d.Qualify = false
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	src := New(db, d, "main", nil)

	mock.ExpectQuery("SELECT table_name FROM tables WHERE schema = ?").
		WithArgs("main").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow(`we"ird`))
	mock.ExpectQuery(`SELECT * FROM "we""ird"`).
		WillReturnRows(columns("a").AddRow("1"))
	mock.ExpectClose()

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Key{Namespace: "main", ID: `we"ird`}, got.Tables()[0].Key)
	require.NoError(t, src.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_LoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		errSubstr string
	}{
		{
			name: "list tables fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT table_name FROM tables WHERE schema = ?").WillReturnError(assert.AnError)
			},
			errSubstr: "failed to list tables",
		},
		{
			name: "table query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT table_name FROM tables WHERE schema = ?").
					WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("t"))
				mock.ExpectQuery(`SELECT * FROM "public"."t"`).WillReturnError(assert.AnError)
			},
			errSubstr: "failed to query table t",
		},
		{
			name: "row iteration fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT table_name FROM tables WHERE schema = ?").
					WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("t"))
				mock.ExpectQuery(`SELECT * FROM "public"."t"`).
					WillReturnRows(columns("a").AddRow("1").RowError(0, assert.AnError))
			},
			errSubstr: "error iterating t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, mock := newMockSource(t, "")
			tt.setup(mock)

			_, err := src.Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.ErrorIs(t, err, assert.AnError)
		})
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"string", "x", "x"},
		{"bytes", []byte("raw\x00"), "raw\x00"},
		{"int64", int64(-42), "-42"},
		{"float64", 1.5, "1.5"},
		{"bool", true, "true"},
		{"time", ts, "2024-03-01T12:30:00Z"},
		{"other", int32(7), "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value))
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"people"`, QuoteIdent("people"))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
}

func TestSource_CloseNil(t *testing.T) {
	assert.NoError(t, (&Source{}).Close())
}
