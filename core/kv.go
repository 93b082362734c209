package core

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when no value exists for a key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is a generic keyed blob store.
// The course session bridge uses it to shadow in-flight quiz state under
// user-scoped keys; any implementation (in-memory, SQL, redis) will do.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
