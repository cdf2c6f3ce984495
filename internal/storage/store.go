// Package storage holds the opaque key-value persistence used by the cart
// and the session holder. Values are stored as raw bytes; callers own the
// encoding.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrEmptyKey   = errors.New("storage key is empty")
	ErrFailedGet  = errors.New("failed to read key")
	ErrFailedSet  = errors.New("failed to write key")
	ErrFailedDrop = errors.New("failed to delete key")
)

type Store interface {
	// Get returns ErrNotFound when the key has never been written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key joins a namespace and a name into a storage key.
func Key(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}
