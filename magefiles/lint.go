package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/sh"
)

const (
	binLint  = "golangci-lint"
	binGofmt = "gofmt"
)

// Lint checks formatting with gofmt, then runs golangci-lint.
func Lint() error {
	unformatted, err := sh.Output(binGofmt, "-l", "cmd", "internal", "pkg", "magefiles")
	if err != nil {
		return err
	}
	if files := strings.TrimSpace(unformatted); files != "" {
		return fmt.Errorf("gofmt needed on:\n%s", files)
	}
	return sh.RunV(binLint, "run", "./...")
}
