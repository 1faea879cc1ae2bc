package memstore

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

func rec(coin string, year, n int) *types.InventoryRecord {
	return &types.InventoryRecord{
		Key:          types.RecordKey{CoinType: coin, Year: year},
		SilverOunces: decimal.RequireFromString("0.18084"),
		ValuePerCoin: decimal.RequireFromString("5.4252"),
		NumCoins:     n,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, types.RecordKey{CoinType: "Barber Quarter", Year: 1900})
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, s.Put(ctx, rec("Washington Quarter", 1964, 2)))
	require.NoError(t, s.Put(ctx, rec("Barber Quarter", 1900, 1)))
	require.NoError(t, s.Put(ctx, rec("Washington Quarter", 1950, 5)))
	assert.Equal(t, 3, s.Len())

	got, err := s.Get(ctx, types.RecordKey{CoinType: "Washington Quarter", Year: 1964})
	require.NoError(t, err)
	got.NumCoins = 99
	again, err := s.Get(ctx, got.Key)
	require.NoError(t, err)
	assert.Equal(t, 2, again.NumCoins, "Get must return a copy")

	require.NoError(t, s.UpdateQuantity(ctx, got.Key, 7))
	again, err = s.Get(ctx, got.Key)
	require.NoError(t, err)
	assert.Equal(t, 7, again.NumCoins)
	assert.ErrorIs(t, s.UpdateQuantity(ctx, types.RecordKey{CoinType: "x", Year: 1}, 1), types.ErrNotFound)
	assert.ErrorIs(t, s.UpdateQuantity(ctx, got.Key, -1), types.ErrInvalidRecord)

	recs, err := s.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Barber Quarter", recs[0].Key.CoinType)
	assert.Equal(t, 1950, recs[1].Key.Year)
	assert.Equal(t, 1964, recs[2].Key.Year)

	require.NoError(t, s.Delete(ctx, got.Key))
	require.NoError(t, s.Delete(ctx, got.Key))
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.Close())
	_, err = s.Scan(ctx)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
}
