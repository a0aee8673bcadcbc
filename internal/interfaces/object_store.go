package interfaces

import (
	"context"
	"io"
)

// ObjectStore holds uploaded ad images.
type ObjectStore interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}
