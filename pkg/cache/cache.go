// Package cache stores computed layouts, routes, rendered artifacts and
// fetched datasets.
//
// # Backends
//
//   - [FileCache]: one JSON envelope per key under a directory. Used by the
//     CLI.
//   - [RedisCache]: a shared Redis instance. Used by `leymap serve` when a
//     Redis URL is configured.
//   - [NullCache]: never stores anything.
//
// # Keys
//
// A [Keyer] derives keys from the inputs that determine a result, so equal
// inputs share an entry. Wrap a keyer with [NewScopedKeyer] to isolate
// deployments that share one Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Default time-to-live per entry kind.
const (
	TTLDataset  = time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLRoute    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. The bool is false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// GetJSON reads key and decodes it into v. Undecodable entries count as a
// miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
