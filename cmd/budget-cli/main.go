// Package main is the entry point for budget-cli.
package main

import (
	"os"

	"github.com/pigeonworks-llc/campus-budget/cmd/budget-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
