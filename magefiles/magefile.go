// Package main provides build targets for the coinshelf project using Mage.
//
// Usage:
//
//	mage build          Compile coinshelf binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests that need no external services
//	mage test:cover     Run all tests with a coverage profile
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install coinshelf to GOPATH/bin
package main
