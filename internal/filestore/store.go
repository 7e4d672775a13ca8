// Package filestore defines the object-storage interface the snapshot
// archive writes schema descriptions through. Providers (MinIO, S3, …)
// implement Store; callers depend only on this package.
package filestore

import (
	"context"
	"io"
)

// Store is the interface all object-storage providers must implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// EnsureBucket creates bucket if it does not exist yet.
	EnsureBucket(ctx context.Context, bucket string) error

	// Put stores size bytes read from body under key inside bucket.
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (*ObjectInfo, error)

	// Get opens a streaming handle to the object at key inside bucket.
	// The caller MUST call Object.Close() after reading.
	Get(ctx context.Context, bucket, key string) (Object, error)

	// Stat returns metadata for the object at key without downloading it.
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// List returns the objects in bucket whose keys start with prefix,
	// in lexical key order.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
