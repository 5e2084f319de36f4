// Package metadata persists small string key/value pairs in the local SQLite
// database. It backs the durable session store.
package metadata

import (
	"context"
)

// Repository stores string key/value pairs.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
