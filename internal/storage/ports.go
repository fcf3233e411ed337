package storage

import (
	"context"
)

// KeyValueStore holds opaque string blobs under string keys. Writes replace
// the previous value (last writer wins).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
