// Package main provides the LeapEDI command-line interface.
package main

import (
	"os"

	"github.com/leapstack-labs/leapedi/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
