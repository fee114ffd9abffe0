// Package main runs the commentlint CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/frudas24/cropslice/internal/doclint"
)

// main is the entrypoint for the comment linter CLI.
func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [dir]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Ensures every function has a doc comment. Defaults to the current directory.\n")
		flag.PrintDefaults()
	}
	config := flag.String("config", ".golangci.yml", "golangci-lint config holding the issue excludes")
	flag.Parse()

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}
	os.Exit(run(root, *config))
}

// run lints root and returns the process exit code.
func run(root, configPath string) int {
	cfg, err := doclint.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commentlint: %v\n", err)
		return 1
	}
	res, err := doclint.Check(root, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commentlint: %v\n", err)
		return 1
	}
	if len(res.Findings) == 0 {
		return 0
	}
	for _, f := range res.Findings {
		fmt.Fprintln(os.Stderr, f.String())
	}
	if res.Truncated {
		fmt.Fprintf(os.Stderr, "commentlint: output truncated after %d issues (see %s)\n", len(res.Findings), configPath)
	}
	return 1
}
