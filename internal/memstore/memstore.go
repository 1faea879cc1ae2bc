// Package memstore is an in-process RecordStore. It backs the "memory"
// record store setting and the inventory service tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// Store keeps records in a map guarded by a mutex.
type Store struct {
	mu      sync.RWMutex
	closed  bool
	records map[types.RecordKey]types.InventoryRecord
}

// New returns an empty store.
func New() *Store {
	return &Store{records: make(map[types.RecordKey]types.InventoryRecord)}
}

func (s *Store) Get(_ context.Context, key types.RecordKey) (*types.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}
	rec, ok := s.records[key]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &rec, nil
}

func (s *Store) Put(_ context.Context, rec *types.InventoryRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	s.records[rec.Key] = *rec
	return nil
}

func (s *Store) UpdateQuantity(_ context.Context, key types.RecordKey, numCoins int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	rec, ok := s.records[key]
	if !ok {
		return types.ErrNotFound
	}
	rec.NumCoins = numCoins
	if err := rec.Validate(); err != nil {
		return err
	}
	s.records[key] = rec
	return nil
}

func (s *Store) Delete(_ context.Context, key types.RecordKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	delete(s.records, key)
	return nil
}

// Scan returns copies of every record ordered by coin type then year.
func (s *Store) Scan(_ context.Context) ([]*types.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}
	out := make([]*types.InventoryRecord, 0, len(s.records))
	for _, rec := range s.records {
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.CoinType != out[j].Key.CoinType {
			return out[i].Key.CoinType < out[j].Key.CoinType
		}
		return out[i].Key.Year < out[j].Key.Year
	})
	return out, nil
}

// Close marks the store closed. Records are kept so a test can inspect them.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ types.RecordStore = (*Store)(nil)
