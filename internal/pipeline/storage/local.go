package storage

import (
	types "CatalogForge/pkg"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type LocalStorage struct {
	rootPath string
}

func NewLocalStorage(localCfg types.LocalConfig) (*LocalStorage, error) {
	if localCfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required for local storage")
	}
	if err := os.MkdirAll(localCfg.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root path: %w", err)
	}
	return &LocalStorage{rootPath: localCfg.BasePath}, nil
}

// Upload writes the object to disk. O_EXCL gives the same
// duplicate-key semantics as the S3 backend's conditional put.
func (l *LocalStorage) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	if bucket != "" {
		key = filepath.Join(bucket, key)
	}
	fullPath := filepath.Join(l.rootPath, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	out, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return ErrKeyExists
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
