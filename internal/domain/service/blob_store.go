package service

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when no blob exists under the requested key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore defines the interface for raw byte persistence on the
// filesystem. Keys are generated by the caller and never collide because
// each one embeds a fresh random identifier. The store has no concept of
// ownership; authorization happens against the metadata record.
type BlobStore interface {
	// Store durably writes data under the given key. Either the full
	// payload becomes readable under the key or nothing is left behind.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve reads the full payload stored under the key.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob stored under the key.
	Delete(ctx context.Context, key string) error

	// BasePath reports the base directory backing the store.
	BasePath() string
}
