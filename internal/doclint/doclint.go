// Package doclint reports Go functions that lack a doc comment. Directories
// the go tool ignores (leading "_" or ".", and testdata) are skipped, as are
// generated files and anything excluded by the golangci-lint issue settings.
package doclint

import (
	"bufio"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the issue settings of .golangci.yml that the linter honours.
type Config struct {
	Issues struct {
		MaxIssuesPerLinter int      `yaml:"max-issues-per-linter"`
		ExcludeDirs        []string `yaml:"exclude-dirs"`
		ExcludeFiles       []string `yaml:"exclude-files"`
	} `yaml:"issues"`
}

// LoadConfig reads path. A missing file yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Finding is one function without a doc comment.
type Finding struct {
	Pos  token.Position
	Name string
}

// String formats the finding as file:line:col: message.
func (f Finding) String() string {
	return fmt.Sprintf("%s:%d:%d: missing doc comment for function %q", f.Pos.Filename, f.Pos.Line, f.Pos.Column, f.Name)
}

// Result is the outcome of a Check. Truncated is set when the issue limit
// stopped the walk early.
type Result struct {
	Findings  []Finding
	Truncated bool
}

// errLimit stops the walk once the issue limit is reached.
var errLimit = errors.New("issue limit reached")

// Check walks root and reports every function declaration with a body and
// no doc comment. Paths in findings are relative to root.
func Check(root string, cfg Config) (Result, error) {
	excludeDirs := normaliseDirs(cfg.Issues.ExcludeDirs)
	excludeFiles, err := compileRegexps(cfg.Issues.ExcludeFiles)
	if err != nil {
		return Result{}, err
	}
	limit := cfg.Issues.MaxIssuesPerLinter

	var res Result
	fset := token.NewFileSet()
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if (path != root && ignoredDir(d.Name())) || matchesDir(rel, excludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".go") || matchesFile(rel, excludeFiles) || isGenerated(path) {
			return nil
		}

		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return fmt.Errorf("parse %s: %w", rel, err)
		}
		for _, fn := range undocumented(f) {
			pos := fset.Position(fn.Pos())
			pos.Filename = rel
			res.Findings = append(res.Findings, Finding{Pos: pos, Name: fn.Name.Name})
			if limit > 0 && len(res.Findings) >= limit {
				res.Truncated = true
				return errLimit
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		return res, err
	}
	return res, nil
}

// undocumented returns the function declarations of f that have a body and
// an empty doc comment.
func undocumented(f *ast.File) []*ast.FuncDecl {
	var out []*ast.FuncDecl
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		if fn.Doc == nil || strings.TrimSpace(fn.Doc.Text()) == "" {
			out = append(out, fn)
		}
	}
	return out
}

// ignoredDir reports whether the go tool skips a directory of this name.
func ignoredDir(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "testdata"
}

// normaliseDirs trims "./" prefixes and converts to forward slashes.
func normaliseDirs(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = strings.TrimSpace(strings.TrimPrefix(d, "./"))
		if d == "" {
			continue
		}
		out = append(out, filepath.ToSlash(d))
	}
	return out
}

// compileRegexps compiles the exclude-files patterns.
func compileRegexps(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		rx, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude regex %q: %w", p, err)
		}
		out = append(out, rx)
	}
	return out, nil
}

// matchesDir reports whether rel is one of dirs or below one.
func matchesDir(rel string, dirs []string) bool {
	for _, d := range dirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return false
}

// matchesFile reports whether any pattern matches rel.
func matchesFile(rel string, patterns []*regexp.Regexp) bool {
	for _, rx := range patterns {
		if rx.MatchString(rel) {
			return true
		}
	}
	return false
}

// isGenerated reports whether the file carries a generated-code marker in
// its first lines.
func isGenerated(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for i := 0; i < 10 && scanner.Scan(); i++ {
		line := scanner.Text()
		if strings.Contains(line, "Code generated") || strings.Contains(line, "DO NOT EDIT") {
			return true
		}
	}
	return false
}
