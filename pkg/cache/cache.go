// Package cache stores built diagrams and exported documents.
//
// Caching is an optimization only. Every reader treats a miss, an expired
// entry or an unreadable entry the same way: recompute and overwrite.
//
// Backends:
//
//   - [FileCache] keeps entries as JSON envelopes under a directory (the
//     CLI default, $XDG_CACHE_HOME/panelmap).
//   - [RedisCache] shares entries between server replicas.
//   - [NullCache] stores nothing.
//
// Keys come from a [Keyer]. A diagram key covers the hash of the input tree
// and every option that changes the diagram; an artifact key covers the
// hash of the diagram JSON and the export options. [ScopedKeyer] prefixes
// keys so several deployments can share one Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)
