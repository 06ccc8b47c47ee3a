// Package main provides the nlnotebook command.
package main

import (
	"os"

	"github.com/leapstack-labs/nlnotebook/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
