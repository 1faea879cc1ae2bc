package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/coinshelf/internal/blob"
	"github.com/mesh-intelligence/coinshelf/internal/inventory"
	"github.com/mesh-intelligence/coinshelf/internal/logger"
	"github.com/mesh-intelligence/coinshelf/internal/memstore"
	"github.com/mesh-intelligence/coinshelf/internal/mongodb"
	"github.com/mesh-intelligence/coinshelf/pkg/sqlite"
	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// photosDirName is the directory under data_dir holding filesystem photos.
const photosDirName = "photos"

// openRecordStore opens the configured record store, provisioning its table.
func openRecordStore(ctx context.Context, cfg types.Config, log *zap.Logger) (types.RecordStore, error) {
	switch cfg.RecordStore {
	case types.RecordStoreSQLite:
		return sqlite.Open(cfg, logger.Named(log, "store.sqlite"))
	case types.RecordStoreMongoDB:
		return mongodb.NewRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.Table, logger.Named(log, "store.mongodb"))
	case types.RecordStoreMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("%w: record store %q", types.ErrBackendUnknown, cfg.RecordStore)
	}
}

// openBlobStore opens the configured photo store, creating its bucket or
// directory. It returns a nil store for blob_store "none".
func openBlobStore(ctx context.Context, cfg types.Config, log *zap.Logger) (types.BlobStore, error) {
	switch cfg.BlobStore {
	case types.BlobStoreFilesystem:
		return blob.NewFileStore(filepath.Join(cfg.DataDir, photosDirName), logger.Named(log, "blob.fs"))
	case types.BlobStoreGCS:
		return blob.NewGCSStore(ctx, cfg.GCS, logger.Named(log, "blob.gcs"))
	case types.BlobStoreNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: blob store %q", types.ErrBackendUnknown, cfg.BlobStore)
	}
}

// openService opens both stores and wires them into an inventory service.
// The returned function closes the record store.
func openService(ctx context.Context, cfg types.Config, log *zap.Logger) (*inventory.Service, func(), error) {
	records, err := openRecordStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open record store: %w", err)
	}
	blobs, err := openBlobStore(ctx, cfg, log)
	if err != nil {
		records.Close()
		return nil, nil, fmt.Errorf("open blob store: %w", err)
	}

	svc := inventory.NewService(types.DefaultCatalog(), records, blobs, logger.Named(log, "svc.inventory"))
	closeFn := func() {
		if err := records.Close(); err != nil {
			log.Warn("close record store", zap.Error(err))
		}
	}
	return svc, closeFn, nil
}
