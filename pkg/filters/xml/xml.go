// Package xml provides the XML output filter.
package xml

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/morkxml/pkg/core"
	"github.com/leapstack-labs/morkxml/pkg/filter"
	"github.com/leapstack-labs/morkxml/pkg/format"
	"github.com/leapstack-labs/morkxml/pkg/xmlesc"
)

// Name is the registry name of this filter.
const Name = "xml"

// DefaultOut is used when no out argument is given.
const DefaultOut = "mork.xml"

// Options holds the decoded filter arguments.
type Options struct {
	// Out is the output file name.
	Out string `mapstructure:"out"`
}

var usage = []filter.Argument{
	{Name: "out", Description: "Name to use for output file (default: " + DefaultOut + ")"},
}

// Filter writes a database as an XML file.
type Filter struct {
	logger *slog.Logger
}

// New creates the filter. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Filter{logger: logger}
}

// Name implements filter.Filter.
func (f *Filter) Name() string { return Name }

// Description implements filter.Filter.
func (f *Filter) Description() string { return "Simple XML output filter" }

// Usage implements filter.Filter.
func (f *Filter) Usage() []filter.Argument { return usage }

// ParseOptions validates args and applies defaults.
func ParseOptions(args map[string]string) (Options, error) {
	converted, err := filter.ConvertArgs(usage, args)
	if err != nil {
		return Options{}, err
	}
	opts := Options{Out: DefaultOut}
	if err := mapstructure.Decode(converted, &opts); err != nil {
		return Options{}, fmt.Errorf("unable to decode xml filter arguments: %w", err)
	}
	if opts.Out == "" {
		opts.Out = DefaultOut
	}
	return opts, nil
}

// Output implements filter.Filter.
func (f *Filter) Output(_ context.Context, db *core.Database, args map[string]string) error {
	opts, err := ParseOptions(args)
	if err != nil {
		return err
	}
	return f.WriteFile(opts.Out, db)
}

// WriteFile writes db to path. The file is closed on every path; on a write
// error a partial file is left behind.
func (f *Filter) WriteFile(path string, db *core.Database) (err error) {
	out, err := os.Create(path) //nolint:gosec // path is the user's chosen output
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	f.logger.Debug("writing xml", slog.String("out", path), slog.Int("tables", db.Len()))

	diag := xmlesc.NewDiagnostics(f.logger)
	if err := format.WriteDocument(out, db, diag.Escaper()); err != nil {
		return err
	}
	diag.Log(f.logger)
	return nil
}

func init() {
	filter.Register(Name, func(logger *slog.Logger) filter.Filter {
		return New(logger)
	})
}
