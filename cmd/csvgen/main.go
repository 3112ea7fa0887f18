// Package main is the entry point for the csvgen CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/csvgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
