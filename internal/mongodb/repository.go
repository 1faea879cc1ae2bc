// Package mongodb implements the RecordStore on a MongoDB collection. The
// (coin type, year) key is the document _id, so the collection enforces
// uniqueness without a secondary index.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// recordID is the composite _id of a record document.
type recordID struct {
	CoinType string `bson:"coin_type"`
	Year     int    `bson:"year"`
}

type recordDocument struct {
	ID           recordID             `bson:"_id"`
	SilverOunces primitive.Decimal128 `bson:"silver_ounces"`
	ValuePerCoin primitive.Decimal128 `bson:"value_per_coin"`
	NumCoins     int                  `bson:"num_coins"`
	Photo        string               `bson:"photo"`
}

// Repository implements types.RecordStore for MongoDB.
type Repository struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewRepository connects to uri, verifies the connection and makes sure the
// collection exists in dbName.
func NewRepository(ctx context.Context, uri, dbName, collName string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !types.ValidTableName(collName) {
		return nil, fmt.Errorf("%w: %q", types.ErrTableName, collName)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	if err := ensureCollection(ctx, db, collName, logger); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Repository{
		client: client,
		coll:   db.Collection(collName),
		logger: logger,
	}, nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) error {
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	if len(names) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	logger.Info("record table provisioned", zap.String("collection", name), zap.String("database", db.Name()))
	return nil
}

// Get retrieves the record for key.
func (r *Repository) Get(ctx context.Context, key types.RecordKey) (*types.InventoryRecord, error) {
	var doc recordDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": idFor(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", key, err)
	}
	return fromDocument(doc)
}

// Put replaces or inserts the record document.
func (r *Repository) Put(ctx context.Context, rec *types.InventoryRecord) error {
	doc, err := toDocument(rec)
	if err != nil {
		return err
	}
	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", rec.Key, err)
	}
	r.logger.Debug("record put", zap.Stringer("key", rec.Key), zap.Int("num_coins", rec.NumCoins))
	return nil
}

// UpdateQuantity sets num_coins on an existing document.
func (r *Repository) UpdateQuantity(ctx context.Context, key types.RecordKey, numCoins int) error {
	if numCoins < 0 {
		return fmt.Errorf("%w: negative coin count %d", types.ErrInvalidRecord, numCoins)
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": idFor(key)},
		bson.M{"$set": bson.M{"num_coins": numCoins}},
	)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", key, err)
	}
	if res.MatchedCount == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Delete removes the document for key. A missing document is not an error.
func (r *Repository) Delete(ctx context.Context, key types.RecordKey) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": idFor(key)}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Scan returns every record sorted by coin type then year.
func (r *Repository) Scan(ctx context.Context) ([]*types.InventoryRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "_id.coin_type", Value: 1},
		{Key: "_id.year", Value: 1},
	})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}
	defer cur.Close(ctx)

	var out []*types.InventoryRecord
	for cur.Next(ctx) {
		var doc recordDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		rec, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close() error {
	return r.client.Disconnect(context.Background())
}

func idFor(key types.RecordKey) recordID {
	return recordID{CoinType: key.CoinType, Year: key.Year}
}

func toDocument(rec *types.InventoryRecord) (recordDocument, error) {
	if err := rec.Validate(); err != nil {
		return recordDocument{}, err
	}
	ounces, err := primitive.ParseDecimal128(rec.SilverOunces.String())
	if err != nil {
		return recordDocument{}, fmt.Errorf("encode silver_ounces: %w", err)
	}
	perCoin, err := primitive.ParseDecimal128(rec.ValuePerCoin.String())
	if err != nil {
		return recordDocument{}, fmt.Errorf("encode value_per_coin: %w", err)
	}
	return recordDocument{
		ID:           idFor(rec.Key),
		SilverOunces: ounces,
		ValuePerCoin: perCoin,
		NumCoins:     rec.NumCoins,
		Photo:        rec.PhotoRef,
	}, nil
}

func fromDocument(doc recordDocument) (*types.InventoryRecord, error) {
	ounces, err := decimal.NewFromString(doc.SilverOunces.String())
	if err != nil {
		return nil, fmt.Errorf("decode silver_ounces: %w", err)
	}
	perCoin, err := decimal.NewFromString(doc.ValuePerCoin.String())
	if err != nil {
		return nil, fmt.Errorf("decode value_per_coin: %w", err)
	}
	return &types.InventoryRecord{
		Key:          types.RecordKey{CoinType: doc.ID.CoinType, Year: doc.ID.Year},
		SilverOunces: ounces,
		ValuePerCoin: perCoin,
		NumCoins:     doc.NumCoins,
		PhotoRef:     doc.Photo,
	}, nil
}

var _ types.RecordStore = (*Repository)(nil)
