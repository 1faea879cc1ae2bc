// Package sqlite provides the public API for the SQLite record store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/coinshelf/internal/sqlite"
	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// Open creates a SQLite record store and attaches it to config.DataDir,
// provisioning the inventory table when it does not exist yet.
//
// Example:
//
//	store, err := sqlite.Open(types.Config{DataDir: ".coinshelf-db"}, nil)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(config types.Config, logger *zap.Logger) (types.RecordStore, error) {
	b := sqlite.NewBackend(logger)
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	return b, nil
}
