// Package inventory orchestrates the collection operations (add, delete,
// list, clear) over a record store and an optional photo store.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/coinshelf/internal/valuation"
	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// AddRequest describes one purchase of Quantity coins of a catalog entry.
type AddRequest struct {
	CoinIndex int // 1-based catalog position
	Year      int
	Quantity  int
	SpotPrice decimal.Decimal

	// PhotoPath is an optional local file uploaded before the record is
	// written. PhotoKey names the blob; it defaults to the file's base name.
	PhotoPath string
	PhotoKey  string
}

// AddOutcome tells whether Add created a record or grew an existing one.
type AddOutcome int

const (
	Created AddOutcome = iota + 1
	Updated
)

// AddResult is the state of the record after Add.
type AddResult struct {
	Outcome AddOutcome
	Record  types.InventoryRecord
}

// ListLine is one row of the collection listing.
type ListLine struct {
	CoinType  string          `json:"coin_type"`
	Year      int             `json:"year"`
	NumCoins  int             `json:"num_coins"`
	LineValue decimal.Decimal `json:"value"`
}

// Listing is the full collection with its total value.
type Listing struct {
	Lines []ListLine      `json:"coins"`
	Total decimal.Decimal `json:"total"`
}

// Empty reports whether the collection has no records.
func (l Listing) Empty() bool { return len(l.Lines) == 0 }

// ClearError reports a ClearAll that stopped partway. Records deleted before
// Key stay deleted; Key and everything after it survive.
type ClearError struct {
	Key     types.RecordKey
	Deleted int
	Err     error
}

func (e *ClearError) Error() string {
	return fmt.Sprintf("clear stopped at %s after deleting %d record(s): %v", e.Key, e.Deleted, e.Err)
}

func (e *ClearError) Unwrap() error { return e.Err }

// Service implements the inventory operations.
type Service struct {
	catalog types.Catalog
	records types.RecordStore
	blobs   types.BlobStore
	logger  *zap.Logger
}

// NewService wires a service to its stores. blobs may be nil when photos are
// not supported; an Add with a photo then fails with ErrBlobStoreUnavailable.
func NewService(catalog types.Catalog, records types.RecordStore, blobs types.BlobStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog: catalog,
		records: records,
		blobs:   blobs,
		logger:  logger,
	}
}

// Catalog returns the catalog the service resolves coin indexes against.
func (s *Service) Catalog() types.Catalog { return s.catalog }

// Add records a purchase. The photo, if any, is uploaded before the record
// store is touched so a failed upload leaves no record behind. An existing
// record only has its coin count increased; its value per coin and photo
// stay as first written.
func (s *Service) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	coin, err := s.catalog.Get(req.CoinIndex)
	if err != nil {
		return AddResult{}, err
	}
	if req.Quantity < 1 {
		return AddResult{}, fmt.Errorf("%w: quantity must be at least 1, got %d", types.ErrInvalidInput, req.Quantity)
	}

	photoRef := ""
	if req.PhotoPath != "" {
		photoRef, err = s.uploadPhoto(ctx, req.PhotoPath, req.PhotoKey)
		if err != nil {
			return AddResult{}, err
		}
	}

	key := types.RecordKey{CoinType: coin.Name, Year: req.Year}
	existing, err := s.records.Get(ctx, key)
	switch {
	case err == nil:
		existing.NumCoins += req.Quantity
		if err := s.records.UpdateQuantity(ctx, key, existing.NumCoins); err != nil {
			return AddResult{}, fmt.Errorf("update %s: %w", key, err)
		}
		s.logger.Info("coin quantity updated", zap.Stringer("key", key), zap.Int("num_coins", existing.NumCoins))
		return AddResult{Outcome: Updated, Record: *existing}, nil
	case errors.Is(err, types.ErrNotFound):
	default:
		return AddResult{}, fmt.Errorf("get %s: %w", key, err)
	}

	total := valuation.ComputeTotal(coin.SilverOunces, req.SpotPrice, req.Quantity)
	perCoin, err := valuation.ComputePerCoin(total, req.Quantity)
	if err != nil {
		return AddResult{}, err
	}

	rec := types.InventoryRecord{
		Key:          key,
		SilverOunces: coin.SilverOunces,
		ValuePerCoin: perCoin,
		NumCoins:     req.Quantity,
		PhotoRef:     photoRef,
	}
	if err := s.records.Put(ctx, &rec); err != nil {
		return AddResult{}, fmt.Errorf("put %s: %w", key, err)
	}
	s.logger.Info("coin added",
		zap.Stringer("key", key),
		zap.Int("num_coins", rec.NumCoins),
		zap.String("value_per_coin", perCoin.String()),
	)
	return AddResult{Outcome: Created, Record: rec}, nil
}

func (s *Service) uploadPhoto(ctx context.Context, path, key string) (string, error) {
	if s.blobs == nil {
		return "", types.ErrBlobStoreUnavailable
	}
	if key == "" {
		key = filepath.Base(path)
	}
	if err := s.blobs.Upload(ctx, path, key); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	s.logger.Info("photo uploaded", zap.String("key", key))
	return key, nil
}

// Delete removes the whole record for the coin and year. Deleting a record
// that does not exist succeeds.
func (s *Service) Delete(ctx context.Context, coinIndex, year int) error {
	coin, err := s.catalog.Get(coinIndex)
	if err != nil {
		return err
	}
	key := types.RecordKey{CoinType: coin.Name, Year: year}
	if err := s.records.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	s.logger.Info("coin deleted", zap.Stringer("key", key))
	return nil
}

// List returns every record with its stored value and the collection total.
// Values come from each record's stored value per coin, not today's price.
func (s *Service) List(ctx context.Context) (Listing, error) {
	recs, err := s.records.Scan(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("scan: %w", err)
	}

	listing := Listing{Lines: make([]ListLine, 0, len(recs)), Total: decimal.Zero}
	for _, rec := range recs {
		value := valuation.LineValue(rec.ValuePerCoin, rec.NumCoins)
		listing.Lines = append(listing.Lines, ListLine{
			CoinType:  rec.Key.CoinType,
			Year:      rec.Key.Year,
			NumCoins:  rec.NumCoins,
			LineValue: value,
		})
		listing.Total = listing.Total.Add(value)
	}
	return listing, nil
}

// ClearAll deletes every record one at a time and returns how many were
// deleted. It is not atomic: on failure it returns a *ClearError and the
// remaining records survive.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	recs, err := s.records.Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan: %w", err)
	}

	deleted := 0
	for _, rec := range recs {
		if err := s.records.Delete(ctx, rec.Key); err != nil {
			s.logger.Warn("clear stopped", zap.Stringer("key", rec.Key), zap.Int("deleted", deleted), zap.Error(err))
			return deleted, &ClearError{Key: rec.Key, Deleted: deleted, Err: err}
		}
		deleted++
	}
	s.logger.Info("collection cleared", zap.Int("deleted", deleted))
	return deleted, nil
}
