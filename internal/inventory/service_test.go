package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coinshelf/internal/memstore"
	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

const (
	morganIdx = 1
	dimeIdx   = 10
)

var errBoom = errors.New("boom")

// recordingBlobs records uploads and, when err is set, fails them.
type recordingBlobs struct {
	uploads []string
	err     error
	store   *memstore.Store
	seen    int // store size observed at upload time
}

func (r *recordingBlobs) Upload(_ context.Context, localPath, key string) error {
	if r.store != nil {
		r.seen = r.store.Len()
	}
	if r.err != nil {
		return r.err
	}
	r.uploads = append(r.uploads, localPath+"->"+key)
	return nil
}

// failingStore wraps a memstore and fails Delete for one key.
type failingStore struct {
	*memstore.Store
	failOn types.RecordKey
}

func (f *failingStore) Delete(ctx context.Context, key types.RecordKey) error {
	if key == f.failOn {
		return errBoom
	}
	return f.Store.Delete(ctx, key)
}

// brokenStore wraps a memstore and fails the selected operations.
type brokenStore struct {
	*memstore.Store
	getErr    error
	putErr    error
	updateErr error
}

func (b *brokenStore) Get(ctx context.Context, key types.RecordKey) (*types.InventoryRecord, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.Store.Get(ctx, key)
}

func (b *brokenStore) Put(ctx context.Context, rec *types.InventoryRecord) error {
	if b.putErr != nil {
		return b.putErr
	}
	return b.Store.Put(ctx, rec)
}

func (b *brokenStore) UpdateQuantity(ctx context.Context, key types.RecordKey, numCoins int) error {
	if b.updateErr != nil {
		return b.updateErr
	}
	return b.Store.UpdateQuantity(ctx, key, numCoins)
}

func spot(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return NewService(types.DefaultCatalog(), store, nil, nil), store
}

func TestService_AddCreatesRecord(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	res, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 10, SpotPrice: spot("30.00")})
	require.NoError(t, err)
	assert.Equal(t, Created, res.Outcome)

	rec, err := store.Get(ctx, types.RecordKey{CoinType: "Roosevelt Dime", Year: 1964})
	require.NoError(t, err)
	assert.Equal(t, 10, rec.NumCoins)
	assert.True(t, rec.SilverOunces.Equal(spot("0.07234")))
	assert.True(t, rec.ValuePerCoin.Equal(spot("2.1702")), "got %s", rec.ValuePerCoin)
	assert.Equal(t, "", rec.PhotoRef)
}

func TestService_AddExistingIncreasesQuantityOnly(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 10, SpotPrice: spot("30.00")})
	require.NoError(t, err)

	res, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 5, SpotPrice: spot("40.00")})
	require.NoError(t, err)
	assert.Equal(t, Updated, res.Outcome)
	assert.Equal(t, 15, res.Record.NumCoins)

	rec, err := store.Get(ctx, types.RecordKey{CoinType: "Roosevelt Dime", Year: 1964})
	require.NoError(t, err)
	assert.Equal(t, 15, rec.NumCoins)
	assert.True(t, rec.ValuePerCoin.Equal(spot("2.1702")), "value per coin must keep the first spot price")
	assert.Equal(t, 1, store.Len())
}

func TestService_AddRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     AddRequest
		wantErr error
	}{
		{"index zero", AddRequest{CoinIndex: 0, Year: 1964, Quantity: 1}, types.ErrInvalidChoice},
		{"index past catalog", AddRequest{CoinIndex: 11, Year: 1964, Quantity: 1}, types.ErrInvalidChoice},
		{"negative index", AddRequest{CoinIndex: -3, Year: 1964, Quantity: 1}, types.ErrInvalidChoice},
		{"zero quantity", AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 0}, types.ErrInvalidInput},
		{"negative quantity", AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: -2}, types.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			tt.req.SpotPrice = spot("30")
			_, err := svc.Add(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestService_AddWithPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads before writing and stores key", func(t *testing.T) {
		store := memstore.New()
		blobs := &recordingBlobs{store: store}
		svc := NewService(types.DefaultCatalog(), store, blobs, nil)

		_, err := svc.Add(ctx, AddRequest{
			CoinIndex: morganIdx, Year: 1881, Quantity: 1, SpotPrice: spot("25"),
			PhotoPath: "/tmp/pics/morgan.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"/tmp/pics/morgan.jpg->morgan.jpg"}, blobs.uploads)
		assert.Equal(t, 0, blobs.seen, "upload must happen before the record is written")

		rec, err := store.Get(ctx, types.RecordKey{CoinType: "Morgan Dollar", Year: 1881})
		require.NoError(t, err)
		assert.Equal(t, "morgan.jpg", rec.PhotoRef)
	})

	t.Run("explicit key wins", func(t *testing.T) {
		blobs := &recordingBlobs{}
		svc := NewService(types.DefaultCatalog(), memstore.New(), blobs, nil)

		res, err := svc.Add(ctx, AddRequest{
			CoinIndex: morganIdx, Year: 1881, Quantity: 1, SpotPrice: spot("25"),
			PhotoPath: "morgan.jpg", PhotoKey: "morgan/1881.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, "morgan/1881.jpg", res.Record.PhotoRef)
	})

	t.Run("upload failure writes nothing", func(t *testing.T) {
		store := memstore.New()
		svc := NewService(types.DefaultCatalog(), store, &recordingBlobs{err: errBoom}, nil)

		_, err := svc.Add(ctx, AddRequest{
			CoinIndex: morganIdx, Year: 1881, Quantity: 1, SpotPrice: spot("25"),
			PhotoPath: "morgan.jpg",
		})
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("no blob store", func(t *testing.T) {
		svc, store := newTestService(t)

		_, err := svc.Add(ctx, AddRequest{
			CoinIndex: morganIdx, Year: 1881, Quantity: 1, SpotPrice: spot("25"),
			PhotoPath: "morgan.jpg",
		})
		assert.ErrorIs(t, err, types.ErrBlobStoreUnavailable)
		assert.Equal(t, 0, store.Len())
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 3, SpotPrice: spot("30")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, dimeIdx, 1964))
	assert.Equal(t, 0, store.Len())
	assert.NoError(t, svc.Delete(ctx, dimeIdx, 1964), "second delete succeeds")
	assert.NoError(t, svc.Delete(ctx, morganIdx, 1900), "deleting a never-added coin succeeds")
	assert.ErrorIs(t, svc.Delete(ctx, 42, 1964), types.ErrInvalidChoice)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	listing, err := svc.List(ctx)
	require.NoError(t, err)
	assert.True(t, listing.Empty())
	assert.True(t, listing.Total.IsZero())

	_, err = svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 10, SpotPrice: spot("30")})
	require.NoError(t, err)
	_, err = svc.Add(ctx, AddRequest{CoinIndex: morganIdx, Year: 1881, Quantity: 2, SpotPrice: spot("25")})
	require.NoError(t, err)

	listing, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Lines, 2)

	assert.Equal(t, ListLine{CoinType: "Morgan Dollar", Year: 1881, NumCoins: 2, LineValue: listing.Lines[0].LineValue}, listing.Lines[0])
	assert.True(t, listing.Lines[0].LineValue.Equal(spot("38.672")), "got %s", listing.Lines[0].LineValue)
	assert.True(t, listing.Lines[1].LineValue.Equal(spot("21.702")), "got %s", listing.Lines[1].LineValue)
	assert.True(t, listing.Total.Equal(spot("60.374")), "got %s", listing.Total)
}

func TestService_AddDeleteList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 1, SpotPrice: spot("30")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, dimeIdx, 1964))

	listing, err := svc.List(ctx)
	require.NoError(t, err)
	assert.True(t, listing.Empty())
}

func TestService_ClearAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empties the store", func(t *testing.T) {
		svc, store := newTestService(t)
		for _, year := range []int{1946, 1955, 1964} {
			_, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: year, Quantity: 1, SpotPrice: spot("30")})
			require.NoError(t, err)
		}

		n, err := svc.ClearAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, 0, store.Len())

		n, err = svc.ClearAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("stops at the failing record", func(t *testing.T) {
		store := &failingStore{
			Store:  memstore.New(),
			failOn: types.RecordKey{CoinType: "Roosevelt Dime", Year: 1955},
		}
		svc := NewService(types.DefaultCatalog(), store, nil, nil)
		for _, year := range []int{1946, 1955, 1964} {
			_, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: year, Quantity: 1, SpotPrice: spot("30")})
			require.NoError(t, err)
		}

		n, err := svc.ClearAll(ctx)
		assert.Equal(t, 1, n)
		assert.ErrorIs(t, err, errBoom)

		var clearErr *ClearError
		require.ErrorAs(t, err, &clearErr)
		assert.Equal(t, 1955, clearErr.Key.Year)
		assert.Equal(t, 1, clearErr.Deleted)
		assert.Equal(t, 2, store.Len())
	})
}

func TestService_AddRecordStoreFailures(t *testing.T) {
	ctx := context.Background()
	dime1964 := types.RecordKey{CoinType: "Roosevelt Dime", Year: 1964}
	withPhoto := AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 2, SpotPrice: spot("30"), PhotoPath: "dime.jpg"}

	t.Run("get failure", func(t *testing.T) {
		store := &brokenStore{Store: memstore.New(), getErr: errBoom}
		blobs := &recordingBlobs{}
		svc := NewService(types.DefaultCatalog(), store, blobs, nil)

		_, err := svc.Add(ctx, withPhoto)
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), dime1964.String())
		assert.Equal(t, 0, store.Len())
	})

	t.Run("put failure after upload", func(t *testing.T) {
		store := &brokenStore{Store: memstore.New(), putErr: errBoom}
		blobs := &recordingBlobs{}
		svc := NewService(types.DefaultCatalog(), store, blobs, nil)

		_, err := svc.Add(ctx, withPhoto)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, []string{"dime.jpg->dime.jpg"}, blobs.uploads)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("update failure keeps the old count", func(t *testing.T) {
		store := &brokenStore{Store: memstore.New()}
		svc := NewService(types.DefaultCatalog(), store, &recordingBlobs{}, nil)
		_, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 5, SpotPrice: spot("30")})
		require.NoError(t, err)

		store.updateErr = errBoom
		_, err = svc.Add(ctx, withPhoto)
		assert.ErrorIs(t, err, errBoom)

		rec, err := store.Store.Get(ctx, dime1964)
		require.NoError(t, err)
		assert.Equal(t, 5, rec.NumCoins)
	})
}

func TestService_ListMatchesHighPrecisionSpot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Add(ctx, AddRequest{CoinIndex: dimeIdx, Year: 1964, Quantity: 3, SpotPrice: spot("30.123456789012345")})
	require.NoError(t, err)

	listing, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Lines, 1)
	want := spot("0.07234").Mul(spot("30.123456789012345")).Mul(spot("3"))
	assert.True(t, listing.Lines[0].LineValue.Equal(want), "got %s, want %s", listing.Lines[0].LineValue, want)
	assert.True(t, listing.Total.Equal(want))
}
