package storage

import (
	"context"
	"errors"
	"io"
)

// ErrKeyExists reports that an upload was rejected because the
// destination key already holds an object. Callers treat it as a
// successful prior upload, not a failure.
var ErrKeyExists = errors.New("storage: key already exists")

type Storage interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error
}
