// Package main generates markdown reference documentation from the morkxml
// command tree and the filter and source registries.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=filters -outdir=docs/filters
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, filters, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

var generators = map[string]struct {
	dir string
	run func(outDir string) error
}{
	"cli":     {dir: "cli", run: generateCLIDocs},
	"filters": {dir: "filters", run: generateFilterDocs},
}

func main() {
	flag.Parse()

	var names []string
	switch *genFlag {
	case "all":
		names = []string{"cli", "filters"}
	case "cli", "filters":
		names = []string{*genFlag}
	default:
		log.Fatalf("unknown -gen value: %s (use: cli, filters, all)", *genFlag)
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	for _, name := range names {
		g := generators[name]
		outDir := filepath.Join(projectRoot, "docs", g.dir)
		if *outDirFlag != "" && len(names) == 1 {
			outDir = *outDirFlag
		}
		if err := g.run(outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", name, err)
		}
	}

	log.Println("Done!")
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
