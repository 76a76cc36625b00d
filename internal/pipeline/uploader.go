package pipeline

import (
	"CatalogForge/internal/pipeline/storage"
	types "CatalogForge/pkg"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Uploader pushes local files to the object store under deterministic
// keys and resolves the public URL for each key.
type Uploader struct {
	storage       storage.Storage
	logger        *zap.Logger
	retry         types.RetryConfig
	bucket        string
	publicBaseURL string
}

func NewUploader(store storage.Storage, logger *zap.Logger, storageCfg types.StorageConfig, retryCfg types.RetryConfig) *Uploader {
	u := &Uploader{
		storage: store,
		logger:  logger,
		retry:   retryCfg,
	}
	switch storageCfg.Type {
	case "s3":
		u.bucket = storageCfg.S3.Bucket
		u.publicBaseURL = storageCfg.S3.PublicBaseURL
		if u.publicBaseURL == "" {
			u.publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", storageCfg.S3.Bucket, storageCfg.S3.Region)
		}
	case "local":
		u.publicBaseURL = storageCfg.Local.PublicBaseURL
	}
	return u
}

// URLFor maps a destination key to its public URL. The mapping is a
// pure function of the key, which is what lets a duplicate-key conflict
// be answered without querying the store.
func (u *Uploader) URLFor(key string) string {
	return strings.TrimRight(u.publicBaseURL, "/") + "/" + key
}

// UploadFile uploads a local file under the given key and returns the
// public URL. A key conflict means a prior run already uploaded this
// object, so the deterministic URL is returned as success. Conflicts
// are never retried; transient errors are.
func (u *Uploader) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	contentType := contentTypeFor(localPath)

	var exists bool
	err = Retry(ctx, u.logger, u.retry, fmt.Sprintf("upload %s", key), func() error {
		uploadErr := u.storage.Upload(ctx, u.bucket, key, contentType, bytes.NewReader(data))
		if errors.Is(uploadErr, storage.ErrKeyExists) {
			exists = true
			return nil
		}
		return uploadErr
	})
	if err != nil {
		return "", fmt.Errorf("upload failed for %s: %w", key, err)
	}

	if exists {
		u.logger.Info("Object already in store, reusing", zap.String("key", key))
	} else {
		u.logger.Info("Uploaded", zap.String("key", key), zap.String("content_type", contentType))
	}

	return u.URLFor(key), nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
