// Package main is the entry point for the alarmdemo application.
package main

import (
	"fmt"
	"os"

	"alarmdemo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
