package storage

import (
	"context"
	"io"
)

// Storage is the object store published snapshots are written to.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}
