// Package main is the entry point for the cashbook CLI.
package main

import (
	"os"

	"github.com/ruralpay/cashbook/cmd/cashbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
