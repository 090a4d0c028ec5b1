// Package main provides the sqleaner CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sqleaner/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
