// Package storage holds the keyed blob stores the cart snapshot is persisted to.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// BlobStore saves and loads opaque payloads under a key.
// Get returns ErrNotFound when nothing has been stored under the key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
}
