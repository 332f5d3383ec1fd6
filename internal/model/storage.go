package model

import (
	"context"
	"io"
)

// Storage is an object store for uploaded profile images.
type Storage interface {
	// Upload stores an object under key and returns its public URL.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL extracts the object key from a public URL produced by
	// Upload. Returns false for URLs that do not point into this store.
	KeyFromURL(rawURL string) (string, bool)
}
