package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/morkxml/internal/cli/config"
	"github.com/leapstack-labs/morkxml/pkg/filter"
	"github.com/leapstack-labs/morkxml/pkg/source"

	// Register filters and sources via init()
	_ "github.com/leapstack-labs/morkxml/pkg/filters/xml"
	_ "github.com/leapstack-labs/morkxml/pkg/sources/duckdb"
	_ "github.com/leapstack-labs/morkxml/pkg/sources/postgres"
	_ "github.com/leapstack-labs/morkxml/pkg/sources/sqlite"
	_ "github.com/leapstack-labs/morkxml/pkg/sources/yaml"
)

// watchDelay is how long convert --watch waits for writes to settle.
const watchDelay = 200 * time.Millisecond

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a Mork database to XML",
		Long: `Load a Mork database and write it through an output filter.

The input is a YAML dump, a SQLite or DuckDB file, or a PostgreSQL URL.
The source type is detected from the input unless --source is given.`,
		Example: `  # Write mork.xml from a YAML dump
  morkxml convert abook.yaml

  # Choose the output file
  morkxml convert abook.db -o abook.xml

  # Re-export whenever the input changes
  morkxml convert abook.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := *config.FromContext(ctx)
			cfg.Source.Path = args[0]
			logger := config.GetLogger(ctx)

			run := func(ctx context.Context) error {
				return Convert(ctx, &cfg, logger, cmd.OutOrStdout())
			}
			if err := run(ctx); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			if t := source.DetectType(cfg.Source.Location()); cfg.Source.DSN != "" || t == "postgres" {
				return fmt.Errorf("--watch requires a file input")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl+C to stop)\n", cfg.Source.Path)
			return watchFile(ctx, cfg.Source.Path, watchDelay, logger, run)
		},
	}

	addSourceFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output file (default: mork.xml)")
	cmd.Flags().StringP("filter", "f", "", "Output filter (default: xml)")
	cmd.Flags().StringToString("arg", nil, "Filter argument as key=value (repeatable)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run the conversion when the input changes")

	return cmd
}

// Convert loads the configured source and writes it through the configured filter.
func Convert(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Resolve the filter first so a bad name or argument fails before loading.
	f, err := filter.New(cfg.Filter, logger)
	if err != nil {
		return err
	}
	args := cfg.FilterArgs()
	if _, err := filter.ConvertArgs(f.Usage(), args); err != nil {
		return err
	}

	start := time.Now()
	db, err := source.Load(ctx, cfg.Source, logger)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.Source.Location(), err)
	}
	logger.Debug("loaded database", slog.Int("tables", db.Len()), slog.Duration("elapsed", time.Since(start)))

	if err := f.Output(ctx, db, args); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Wrote %s (%d tables)\n", args["out"], db.Len())
	return nil
}
