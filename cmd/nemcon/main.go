// Package main provides the nemcon command.
package main

import (
	"os"

	"github.com/leapstack-labs/nemcon/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
