// Package yaml loads Mork databases from YAML dumps.
//
// A dump lists tables in order; each table has rows and an optional meta
// section. Cell mappings keep their document order:
//
//	tables:
//	  - namespace: ns1
//	    id: "1"
//	    rows:
//	      - namespace: ns1
//	        id: r1
//	        cells:
//	          Name: A & B
//	    meta:
//	      cells: {kind: addressbook}
//	      rows:
//	        - {namespace: m, id: "1", cells: {x: y}}
package yaml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/morkxml/pkg/core"
	"github.com/leapstack-labs/morkxml/pkg/source"
)

// Name is the registry name of this source.
const Name = "yaml"

type dumpFile struct {
	Tables []dumpTable `yaml:"tables"`
}

type dumpTable struct {
	Namespace string    `yaml:"namespace"`
	ID        string    `yaml:"id"`
	Rows      []dumpRow `yaml:"rows"`
	Meta      *dumpMeta `yaml:"meta"`
}

type dumpRow struct {
	Namespace string    `yaml:"namespace"`
	ID        string    `yaml:"id"`
	Cells     cellsNode `yaml:"cells"`
}

type dumpMeta struct {
	Cells cellsNode `yaml:"cells"`
	Rows  []dumpRow `yaml:"rows"`
}

// cellsNode is a YAML mapping decoded in document order.
type cellsNode []core.Cell

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *cellsNode) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: cells must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: cell %q must map a scalar column to a scalar value", k.Line, k.Value)
		}
		if v.Tag == "!!null" {
			continue
		}
		*c = append(*c, core.Cell{Column: k.Value, Value: v.Value})
	}
	return nil
}

// Parse decodes a UTF-8 YAML dump.
func Parse(data []byte) (*core.Database, error) {
	var dump dumpFile
	if err := yaml.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("failed to parse yaml dump: %w", err)
	}

	db := core.NewDatabase()
	for _, t := range dump.Tables {
		key := core.Key{Namespace: t.Namespace, ID: t.ID}
		table := core.NewTable()
		for _, r := range t.Rows {
			table.Append(core.Key{Namespace: r.Namespace, ID: r.ID}, core.NewRow(r.Cells...))
		}
		db.AddTable(key, table)

		if t.Meta == nil {
			db.SetMetaTable(key, nil)
			continue
		}
		meta := core.NewMetaTable()
		for _, c := range t.Meta.Cells {
			meta.Cells.Set(c.Column, c.Value)
		}
		for _, r := range t.Meta.Rows {
			meta.AppendRow(core.Key{Namespace: r.Namespace, ID: r.ID}, core.NewRow(r.Cells...))
		}
		db.SetMetaTable(key, meta)
	}
	return db, nil
}

// Source reads a YAML dump from a file.
type Source struct {
	path     string
	encoding string
	logger   *slog.Logger
}

// New creates a source for path. encoding names the file's text encoding
// (any WHATWG label, e.g. "windows-1252"); empty means UTF-8.
// If logger is nil, a discard logger is used.
func New(path, encoding string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{path: path, encoding: encoding, logger: logger}
}

// Load implements source.Source.
func (s *Source) Load(_ context.Context) (*core.Database, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read yaml dump: %w", err)
	}
	data, err = decode(data, s.encoding)
	if err != nil {
		return nil, err
	}

	db, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Debug("loaded yaml dump", slog.String("path", s.path), slog.Int("tables", db.Len()))
	return db, nil
}

// Close implements source.Source.
func (s *Source) Close() error { return nil }

// decode converts data from the named encoding to UTF-8.
func decode(data []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return data, nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s input: %w", encoding, err)
	}
	return out, nil
}

func init() {
	source.Register(Name, func(_ context.Context, cfg source.Config, logger *slog.Logger) (source.Source, error) {
		return New(cfg.Location(), cfg.Encoding, logger), nil
	})
}
