package commands

import "github.com/spf13/cobra"

// addSourceFlags registers the flags selecting and configuring the input.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Source type (yaml|sqlite|duckdb|postgres; default: detect)")
	cmd.Flags().String("dsn", "", "Connection string, overrides the input path")
	cmd.Flags().String("schema", "", "Schema to read from SQL sources")
	cmd.Flags().String("encoding", "", "Text encoding of file sources (default: utf-8)")

	_ = cmd.RegisterFlagCompletionFunc("source", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "sqlite", "duckdb", "postgres"}, cobra.ShellCompDirectiveNoFileComp
	})
}
