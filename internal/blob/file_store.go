package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// FileStore keeps blobs as files under a root directory.
type FileStore struct {
	root   string
	logger *zap.Logger
}

// NewFileStore creates root if it does not exist.
func NewFileStore(root string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create blob dir: %w", err)
		}
		logger.Info("blob bucket created", zap.String("dir", root))
	}
	return &FileStore{root: root, logger: logger}, nil
}

// Root returns the directory holding the blobs.
func (s *FileStore) Root() string { return s.root }

// Upload copies localPath to <root>/<key>. The copy goes to a temporary file
// first and is renamed into place, so a failed upload never leaves a partial
// blob under key.
func (s *FileStore) Upload(ctx context.Context, localPath, key string) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer src.Close()

	dst := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(dst), "."+uuid.NewString()+".tmp")
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy photo: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store blob: %w", err)
	}

	s.logger.Debug("blob uploaded", zap.String("key", name), zap.String("source", localPath))
	return nil
}

var _ types.BlobStore = (*FileStore)(nil)
