// Package main provides the logmerge command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/logmerge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
