// Package main provides the CLI for morkxml.
package main

import (
	"os"

	"github.com/leapstack-labs/morkxml/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
