package types

import (
	"context"
	"errors"
)

// RecordStore is the key-value table holding inventory records, keyed by
// (coin type, year). Implementations provision their table when they are
// opened, so every method assumes the table exists.
type RecordStore interface {
	// Get returns the record for key.
	// Returns ErrNotFound if no record exists for that key.
	Get(ctx context.Context, key RecordKey) (*InventoryRecord, error)

	// Put creates the record, replacing any record stored under the same key.
	Put(ctx context.Context, rec *InventoryRecord) error

	// UpdateQuantity sets NumCoins on an existing record and leaves every
	// other attribute untouched. Returns ErrNotFound if the record is absent.
	UpdateQuantity(ctx context.Context, key RecordKey, numCoins int) error

	// Delete removes the record for key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key RecordKey) error

	// Scan returns every record, ordered by coin type then year.
	Scan(ctx context.Context) ([]*InventoryRecord, error)

	// Close releases the store. Further calls return ErrStoreClosed.
	Close() error
}

// Store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("invalid record")
	ErrStoreClosed   = errors.New("store is closed")

	ErrAlreadyAttached = errors.New("store is already attached")
)

// Input errors reported by the inventory service.
var (
	ErrInvalidChoice = errors.New("invalid choice")
	ErrInvalidInput  = errors.New("invalid input")
)
