// Package kv is the persistence medium behind the cart store: a flat
// key-to-string space with get, set and delete.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys that were never set or were deleted.
var ErrNotFound = errors.New("key not found")

// Store is defined here, on the consumer side; implementations live next to
// the backing technology they wrap.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
