package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Get retrieves the record for key.
// Returns ErrNotFound if no record exists, ErrStoreClosed if detached.
func (b *Backend) Get(ctx context.Context, key types.RecordKey) (*types.InventoryRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreClosed
	}

	row := b.db.QueryRowContext(ctx, b.stmts.get, key.CoinType, key.Year)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return rec, nil
}

// Put writes rec, replacing any record with the same key.
func (b *Backend) Put(ctx context.Context, rec *types.InventoryRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreClosed
	}

	_, err := b.db.ExecContext(ctx, b.stmts.put,
		rec.Key.CoinType,
		rec.Key.Year,
		rec.SilverOunces.String(),
		rec.ValuePerCoin.String(),
		rec.NumCoins,
		rec.PhotoRef,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.Key, err)
	}
	b.logger.Debug("record put", zap.Stringer("key", rec.Key), zap.Int("num_coins", rec.NumCoins))
	return nil
}

// UpdateQuantity sets num_coins for an existing record.
// Returns ErrNotFound if the record is absent.
func (b *Backend) UpdateQuantity(ctx context.Context, key types.RecordKey, numCoins int) error {
	if numCoins < 0 {
		return fmt.Errorf("%w: negative coin count %d", types.ErrInvalidRecord, numCoins)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreClosed
	}

	res, err := b.db.ExecContext(ctx, b.stmts.update, numCoins, key.CoinType, key.Year)
	if err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	b.logger.Debug("record quantity updated", zap.Stringer("key", key), zap.Int("num_coins", numCoins))
	return nil
}

// Delete removes the record for key. A missing record is not an error.
func (b *Backend) Delete(ctx context.Context, key types.RecordKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreClosed
	}

	if _, err := b.db.ExecContext(ctx, b.stmts.delete, key.CoinType, key.Year); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	b.logger.Debug("record deleted", zap.Stringer("key", key))
	return nil
}

// Scan returns all records ordered by coin type and year.
func (b *Backend) Scan(ctx context.Context) ([]*types.InventoryRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreClosed
	}

	rows, err := b.db.QueryContext(ctx, b.stmts.scan)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	defer rows.Close()

	var out []*types.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan records: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return out, nil
}

func scanRecord(row rowScanner) (*types.InventoryRecord, error) {
	var rec types.InventoryRecord
	var ounces, perCoin string
	if err := row.Scan(&rec.Key.CoinType, &rec.Key.Year, &ounces, &perCoin, &rec.NumCoins, &rec.PhotoRef); err != nil {
		return nil, err
	}
	var err error
	rec.SilverOunces, err = decimal.NewFromString(ounces)
	if err != nil {
		return nil, fmt.Errorf("parsing silver_ounces %q: %w", ounces, err)
	}
	rec.ValuePerCoin, err = decimal.NewFromString(perCoin)
	if err != nil {
		return nil, fmt.Errorf("parsing value_per_coin %q: %w", perCoin, err)
	}
	return &rec, nil
}

var _ types.RecordStore = (*Backend)(nil)
