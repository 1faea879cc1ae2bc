// Package sqlite implements the SQLite record store for coinshelf.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// Backend implements types.RecordStore on a single SQLite file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	stmts    statements
	logger   *zap.Logger
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{logger: logger}
}

// Attach opens the database in config.DataDir and provisions the inventory
// table if it is absent. Creates DataDir if it does not exist.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if config.Table == "" {
		config.Table = types.DefaultTable
	}
	if !types.ValidTableName(config.Table) {
		return fmt.Errorf("%w: %q", types.ErrTableName, config.Table)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	stmts := newStatements(config.Table)

	var existing int
	if err := db.QueryRow(tableExistsQuery, config.Table).Scan(&existing); err != nil {
		db.Close()
		return fmt.Errorf("inspect schema: %w", err)
	}
	if _, err := db.Exec(stmts.create); err != nil {
		db.Close()
		return fmt.Errorf("create table %s: %w", config.Table, err)
	}
	if existing == 0 {
		b.logger.Info("record table provisioned", zap.String("table", config.Table), zap.String("path", dbPath))
	}

	b.db = db
	b.config = config
	b.stmts = stmts
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent; after it every record
// operation returns types.ErrStoreClosed.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Close implements types.RecordStore.
func (b *Backend) Close() error {
	return b.Detach()
}

// Path returns the database file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return ""
	}
	dataDir := b.config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, dbFileName)
}
