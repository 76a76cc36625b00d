package storage

import (
	types "CatalogForge/pkg"
	"fmt"
)

func NewStorage(cfg types.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "s3":
		return NewS3Storage(cfg.S3)
	case "local":
		return NewLocalStorage(cfg.Local)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Type)
	}
}
