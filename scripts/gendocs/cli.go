package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/morkxml/internal/cli"
	"github.com/leapstack-labs/morkxml/internal/cli/config"
)

// generateCLIDocs writes an index page plus one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()
	if err := writePage(outDir, "index.md", cliIndex(rootCmd)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}

	for _, cmd := range visibleCommands(rootCmd) {
		if err := writePage(outDir, cmd.Name()+".md", commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}
	return nil
}

func writePage(dir, name string, w *MarkdownWriter) error {
	return os.WriteFile(filepath.Join(dir, name), w.Bytes(), 0600)
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func cliIndex(rootCmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for morkxml")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(rootCmd.Long)

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/morkxml/cmd/morkxml@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(rootCmd) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are read from %s (or %s), then from environment variables prefixed with %s, then from flags. Later sources win.",
		InlineCode("morkxml.yaml"), InlineCode("--config"), InlineCode(config.EnvPrefix)))
	w.Table([]string{"Variable", "Description"}, [][]string{
		{InlineCode(config.EnvPrefix + "OUT"), "Output file (default " + InlineCode(config.DefaultOut) + ")"},
		{InlineCode(config.EnvPrefix + "FILTER"), "Output filter (default " + InlineCode(config.DefaultFilter) + ")"},
		{InlineCode(config.EnvPrefix + "SOURCE_TYPE"), "Source type, detected from the input when unset"},
		{InlineCode(config.EnvPrefix + "SOURCE_DSN"), "Connection string for SQL sources"},
		{InlineCode(config.EnvPrefix + "SOURCE_SCHEMA"), "Schema to read"},
		{InlineCode(config.EnvPrefix + "SOURCE_ENCODING"), "Text encoding of file sources"},
		{InlineCode(config.EnvPrefix + "ARGS_<NAME>"), "Filter argument " + InlineCode("<name>")},
		{InlineCode(config.EnvPrefix + "LOG_LEVEL"), "debug, info, warn or error"},
		{InlineCode(config.EnvPrefix + "LOG_FORMAT"), "auto, text or json"},
	})

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error (check stderr for details)"},
	})
	return w
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	useLine := cmd.UseLine()
	if !strings.HasPrefix(useLine, "morkxml") {
		useLine = "morkxml " + useLine
	}
	w.CodeBlock("bash", useLine)

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w
}

// writeFlagsTable writes a table of flags.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if f.Value.Type() == "string" && def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// cleanExample removes common leading whitespace from example text.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.TrimSpace(example)
	}

	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
