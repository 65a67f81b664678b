//go:build mage

// Package main provides build targets for inkwell using Mage.
//
// Usage:
//
//	mage build            Compile the inkwell binary to bin/
//	mage test             Run unit tests against SQLite
//	mage testIntegration  Run contract tests against PG_DSN / MYSQL_DSN
//	mage lint             Run golangci-lint
//	mage render           Print the migration SQL for every dialect
//	mage clean            Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "inkwell"
	binaryDir  = "bin"
	cmdDir     = "./cmd/inkwell"
)

// Build compiles the inkwell binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestIntegration runs the store contract tests. PG_DSN and MYSQL_DSN select
// the servers; unset ones are skipped.
func TestIntegration() error {
	return sh.RunV("go", "test", "-tags", "integration", "-count=1", "./migration/...", "./internal/...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Render prints the SQL of every migration for every dialect.
func Render() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "migrate", "render")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
