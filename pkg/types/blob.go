package types

import (
	"context"
	"errors"
)

// BlobStore keeps coin photos by key. coinshelf only ever writes blobs; it
// never reads or deletes them.
type BlobStore interface {
	// Upload copies the local file at localPath into the store under key.
	Upload(ctx context.Context, localPath, key string) error
}

// ErrBlobStoreUnavailable is returned when a photo is supplied but no blob
// store is configured.
var ErrBlobStoreUnavailable = errors.New("blob store is not configured")
