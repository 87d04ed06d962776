package storage

import (
	"context"
	"io"
)

// DocumentStore keeps uploaded identity documents in an object store.
// Only keys travel through the rest of the service.
type DocumentStore interface {
	// Put stores the object under key and returns the key back
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)

	// SignedURL returns a short-lived read URL for the object
	SignedURL(ctx context.Context, key string) (string, error)
}
