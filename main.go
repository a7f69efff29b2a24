// Package main is the entry point for the prfetch CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/prfetch/cmd"
	"github.com/danielolaszy/prfetch/internal/logging"
)

// main executes the root command. Any failure is printed to stderr and
// exits with status 1.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Debug("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
