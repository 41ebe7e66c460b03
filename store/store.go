// Package store defines the blob storage contract behind a Book.
//
// A Book keeps its whole record set as one serialized blob under a single
// key. Backends only need to read and replace opaque byte values; they never
// look inside the blob.
package store

import "context"

// Store is a key/value blob store.
//
// Get returns lendbook.ErrKeyNotFound when the key has never been written.
// Set replaces the whole value stored under key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
