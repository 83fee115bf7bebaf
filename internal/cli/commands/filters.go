package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/morkxml/pkg/filter"
	"github.com/leapstack-labs/morkxml/pkg/source"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// NewFiltersCommand creates the filters command.
func NewFiltersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List output filters and sources",
		Long: `List the registered output filters with the arguments each accepts,
followed by the registered input sources.

Filter arguments are passed to convert with --arg name=value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeFilters(cmd.OutOrStdout())
		},
	}
}

func writeFilters(w io.Writer) error {
	_, _ = fmt.Fprintln(w, headingStyle.Render("Filters"))
	for _, name := range filter.List() {
		f, err := filter.New(name, nil)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "\n  %s  %s\n", headingStyle.Render(f.Name()), f.Description())

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, arg := range f.Usage() {
			_, _ = fmt.Fprintf(tw, "    %s\t%s\n", arg.Name, arg.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(w, "\n%s\n\n", headingStyle.Render("Sources"))
	for _, name := range source.List() {
		_, _ = fmt.Fprintf(w, "  %s\n", name)
	}
	return nil
}
