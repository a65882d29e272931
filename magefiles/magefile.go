//go:build mage

// Package main contains Mage build targets for schema-engine developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"data",
	"converted",
	".secrets",
}

// Init creates the data, converted and .secrets directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	fmt.Printf("Initialized %s\n", strings.Join(projectDirs, ", "))
	return nil
}

const (
	binDir  = "bin"
	binName = "schema-engine"
	cmdPkg  = "./cmd/schema-engine"
)

// Build compiles the CLI binary into bin/, stamping the version from
// $VERSION when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Generate builds the CLI and generates the schema for one exam.
func Generate(exam string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "generate", exam)
}

// Serve builds the CLI and starts the HTTP API.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints non-blank Go lines per top-level directory, split into
// production and test code, and the word count of the markdown documents.
func Stats() error {
	st, err := collectStats(".")
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(st.prod))
	for d := range st.prod {
		dirs = append(dirs, d)
	}
	for d := range st.test {
		if _, ok := st.prod[d]; !ok {
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)

	var prod, test int
	fmt.Printf("%-12s %8s %8s\n", "DIR", "PROD", "TEST")
	for _, d := range dirs {
		fmt.Printf("%-12s %8d %8d\n", d, st.prod[d], st.test[d])
		prod += st.prod[d]
		test += st.test[d]
	}
	fmt.Printf("%-12s %8d %8d\n", "total", prod, test)
	fmt.Printf("\nMarkdown words: %d\n", st.docWords)
	return nil
}

type projectStats struct {
	prod, test map[string]int
	docWords   int
}

func collectStats(root string) (projectStats, error) {
	st := projectStats{prod: map[string]int{}, test: map[string]int{}}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.ContainsAny(d.Name()[:1], "._") {
				return filepath.SkipDir
			}
			return nil
		}

		switch filepath.Ext(path) {
		case ".go":
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			top := strings.SplitN(filepath.ToSlash(path), "/", 2)[0]
			if strings.HasSuffix(path, "_test.go") {
				st.test[top] += nonBlankLines(data)
			} else {
				st.prod[top] += nonBlankLines(data)
			}
		case ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			st.docWords += len(strings.Fields(string(data)))
		}
		return nil
	})
	return st, err
}

func nonBlankLines(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
