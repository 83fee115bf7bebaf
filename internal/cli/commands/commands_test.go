package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/morkxml/internal/cli/config"
	"github.com/leapstack-labs/morkxml/internal/testutil"
	"github.com/leapstack-labs/morkxml/pkg/filter"
	"github.com/leapstack-labs/morkxml/pkg/source"
)

const dump = `tables:
  - namespace: ns1
    id: "1"
    rows:
      - namespace: ns1
        id: r1
        cells:
          Name: "A & B"
    meta:
      cells: {kind: addressbook}
  - namespace: ns2
    id: "2"
`

func writeDump(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "abook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConvertCommand(t *testing.T) {
	cmd := NewConvertCommand()

	assert.Equal(t, "convert <input>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"out", "filter", "arg", "watch", "source", "dsn", "schema", "encoding"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.NotNil(t, cmd.Flags().ShorthandLookup("o"))
}

func TestNewTablesCommand(t *testing.T) {
	cmd := NewTablesCommand()

	assert.Equal(t, "tables <input>", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("source"))
	assert.Nil(t, cmd.Flags().Lookup("out"))
}

func TestConvert_WritesDocument(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "abook.xml")

	cfg := config.Default()
	cfg.Out = out
	cfg.Source = source.Config{Path: writeDump(t, dir, dump)}

	var buf bytes.Buffer
	require.NoError(t, Convert(context.Background(), cfg, testutil.NewTestLogger(t), &buf))

	assert.Equal(t, "Wrote "+out+" (2 tables)\n", buf.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<table namespace="ns1" id="1">`)
	assert.Contains(t, string(data), `<cell column="Name">A &amp; B</cell>`)
	assert.Contains(t, string(data), `<table namespace="ns2" id="2">`)
}

func TestConvert_UnknownFilter(t *testing.T) {
	cfg := config.Default()
	cfg.Filter = "csv"
	cfg.Source = source.Config{Path: "unused.yaml"}

	err := Convert(context.Background(), cfg, nil, &bytes.Buffer{})
	var unknown *filter.UnknownFilterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "csv", unknown.Name)
}

func TestConvert_UnknownArgumentBeforeLoad(t *testing.T) {
	cfg := config.Default()
	cfg.Args = map[string]string{"colour": "red"}
	// The input does not exist; the argument error must come first.
	cfg.Source = source.Config{Path: filepath.Join(t.TempDir(), "missing.yaml")}

	err := Convert(context.Background(), cfg, nil, &bytes.Buffer{})
	var unknown *filter.UnknownArgumentError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "colour", unknown.Name)
}

func TestConvert_UndetectableSource(t *testing.T) {
	cfg := config.Default()
	cfg.Out = filepath.Join(t.TempDir(), "x.xml")
	cfg.Source = source.Config{Path: "abook.mab"}

	err := Convert(context.Background(), cfg, nil, &bytes.Buffer{})
	var unknown *source.UnknownSourceError
	require.ErrorAs(t, err, &unknown)
	assert.NoFileExists(t, cfg.Out)
}

func TestConvertCommand_Execute(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cmd.xml")
	input := writeDump(t, dir, dump)

	cmd := NewConvertCommand()
	cfg := config.Default()
	cfg.Out = out
	cmd.SetContext(config.NewContext(context.Background(), cfg))
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{input})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Wrote "+out)
	assert.FileExists(t, out)
}

func TestConvertCommand_WatchRequiresFile(t *testing.T) {
	dir := t.TempDir()
	cmd := NewConvertCommand()
	cfg := config.Default()
	cfg.Out = filepath.Join(dir, "w.xml")
	cfg.Source.DSN = writeDump(t, dir, dump)
	cmd.SetContext(config.NewContext(context.Background(), cfg))
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"ignored", "--watch"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch requires a file input")
}

func TestWatchFile_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, dump)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 200*time.Millisecond, testutil.NewTestLogger(t), func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte(dump), 0600))
	}
	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0600))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "rapid writes should trigger one run")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "abook.yaml"), time.Millisecond, testutil.NewTestLogger(t), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestWriteFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFilters(&buf))

	out := buf.String()
	assert.Contains(t, out, "Filters")
	assert.Contains(t, out, "Simple XML output filter")
	assert.Contains(t, out, "Name to use for output file (default: mork.xml)")
	for _, name := range []string{"yaml", "sqlite", "duckdb", "postgres"} {
		assert.Contains(t, out, name)
	}
}

func TestRenderTables(t *testing.T) {
	dir := t.TempDir()
	db, err := source.Load(context.Background(), source.Config{Path: writeDump(t, dir, dump)}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	renderTables(&buf, db)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Contains(t, buf.String(), "NAMESPACE")
	var body []string
	for _, l := range lines {
		if strings.Contains(l, "ns1") || strings.Contains(l, "ns2") {
			body = append(body, l)
		}
	}
	require.Len(t, body, 2)
	assert.Contains(t, body[0], "yes")
	assert.Contains(t, body[1], "no")
}

func TestRenderTables_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderTables(&buf, nil)
	assert.Equal(t, "(0 tables)\n", buf.String())
}
