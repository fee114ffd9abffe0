// Package main is the cropslice command line.
package main

import (
	"fmt"
	"os"
)

// main is the entrypoint for the cropslice CLI.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
