package main

import (
	"fmt"
	"log"
	"os"

	"github.com/leapstack-labs/morkxml/pkg/filter"
	"github.com/leapstack-labs/morkxml/pkg/source"

	// Register filters and sources via init()
	_ "github.com/leapstack-labs/morkxml/pkg/filters/xml"
	_ "github.com/leapstack-labs/morkxml/pkg/sources/duckdb"
	_ "github.com/leapstack-labs/morkxml/pkg/sources/postgres"
	_ "github.com/leapstack-labs/morkxml/pkg/sources/sqlite"
	_ "github.com/leapstack-labs/morkxml/pkg/sources/yaml"
)

// generateFilterDocs writes one page listing every filter's usage and the
// registered sources.
func generateFilterDocs(outDir string) error {
	log.Printf("Generating filter docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	w, err := filtersPage()
	if err != nil {
		return err
	}
	return writePage(outDir, "index.md", w)
}

func filtersPage() (*MarkdownWriter, error) {
	w := NewMarkdownWriter()
	w.Frontmatter("Filters", "Output filters and input sources")
	w.GeneratedMarker()

	w.Header(1, "Filters")
	w.Paragraph(fmt.Sprintf("Choose a filter with %s and pass its arguments with %s.",
		InlineCode("--filter"), InlineCode("--arg name=value")))

	for _, name := range filter.List() {
		f, err := filter.New(name, nil)
		if err != nil {
			return nil, err
		}
		w.Header(2, InlineCode(f.Name()))
		w.Paragraph(f.Description())

		var rows [][]string
		for _, arg := range f.Usage() {
			rows = append(rows, []string{InlineCode(arg.Name), cleanDescription(arg.Description)})
		}
		w.Table([]string{"Argument", "Description"}, rows)
	}

	w.Header(1, "Sources")
	var items []string
	for _, name := range source.List() {
		items = append(items, InlineCode(name))
	}
	w.BulletList(items)
	return w, nil
}
