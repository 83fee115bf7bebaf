package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/morkxml/internal/cli/config"
	"github.com/leapstack-labs/morkxml/pkg/core"
	"github.com/leapstack-labs/morkxml/pkg/source"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables <input>",
		Short: "List the tables of a Mork database",
		Example: `  morkxml tables abook.yaml
  morkxml tables postgres://localhost/mork --schema crm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := *config.FromContext(ctx)
			cfg.Source.Path = args[0]

			db, err := source.Load(ctx, cfg.Source, config.GetLogger(ctx))
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", cfg.Source.Location(), err)
			}
			renderTables(cmd.OutOrStdout(), db)
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func renderTables(w io.Writer, db *core.Database) {
	if db.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 tables)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Namespace", "ID", "Rows", "Meta"})

	for _, entry := range db.Tables() {
		meta := "no"
		if _, ok := db.MetaTable(entry.Key); ok {
			meta = "yes"
		}
		t.AppendRow(table.Row{entry.Key.Namespace, entry.Key.ID, strconv.Itoa(entry.Table.Len()), meta})
	}
	t.Render()
}
