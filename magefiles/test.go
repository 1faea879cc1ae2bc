package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// mongoTestEnv enables the MongoDB record store tests when set.
const mongoTestEnv = "COINSHELF_TEST_MONGODB_URI"

// Test groups test targets (all, unit, cover).
type Test mg.Namespace

// All runs all tests. MongoDB tests run only when COINSHELF_TEST_MONGODB_URI is set.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs the tests with external services disabled.
func (Test) Unit() error {
	env := map[string]string{mongoTestEnv: ""}
	return sh.RunWithV(env, binGo, "test", "-v", "./...")
}

// Cover runs all tests and writes a coverage profile.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	if os.Getenv("CI") != "" {
		return nil
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}
