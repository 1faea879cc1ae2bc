package blob

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storageapi "google.golang.org/api/storage/v1"

	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// GCSStore uploads blobs to a Google Cloud Storage bucket.
type GCSStore struct {
	service *storageapi.Service
	bucket  string
	logger  *zap.Logger
}

// NewGCSStore builds the storage client and creates the bucket in project if
// it does not exist yet.
func NewGCSStore(ctx context.Context, cfg types.GCSConfig, logger *zap.Logger, opts ...option.ClientOption) (*GCSStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Bucket == "" {
		return nil, types.ErrBucketEmpty
	}

	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(storageapi.DevstorageReadWriteScope))

	service, err := storageapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	s := &GCSStore{service: service, bucket: cfg.Bucket, logger: logger}
	if err := s.ensureBucket(ctx, cfg.Project); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GCSStore) ensureBucket(ctx context.Context, project string) error {
	_, err := s.service.Buckets.Get(s.bucket).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("get bucket %s: %w", s.bucket, err)
	}
	if project == "" {
		return fmt.Errorf("bucket %s does not exist and no gcs project is configured to create it", s.bucket)
	}

	if _, err := s.service.Buckets.Insert(project, &storageapi.Bucket{Name: s.bucket}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("blob bucket created", zap.String("bucket", s.bucket), zap.String("project", project))
	return nil
}

// Upload streams localPath into the bucket as object key.
func (s *GCSStore) Upload(ctx context.Context, localPath, key string) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	obj := &storageapi.Object{Name: name}
	if _, err := s.service.Objects.Insert(s.bucket, obj).Media(f).Context(ctx).Do(); err != nil {
		return fmt.Errorf("upload %s to bucket %s: %w", name, s.bucket, err)
	}

	s.logger.Debug("blob uploaded", zap.String("bucket", s.bucket), zap.String("key", name))
	return nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

var _ types.BlobStore = (*GCSStore)(nil)
