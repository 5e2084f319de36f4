// Package store provides the injectable key/value session store and the two
// typed views the client needs on top of it: the durable bearer token and the
// session-scoped one-tap dismissal flag.
//
// Implementations:
//   - MemoryStore: process lifetime; plays the role of session-scoped storage.
//   - SQLiteStore: durable, backed by the local metadata table.
//   - RedisStore: durable, shared between machines.
package store

import "context"

// Store is a string key/value store. Get reports presence separately from
// the value so that an empty value is distinguishable from a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
