package interfaces

import (
	"context"
	"io"
)

// BlobStorage stores uploaded document contents
type BlobStorage interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
