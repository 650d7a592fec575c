// Package cache stores rendered chart artifacts.
//
// Rendering is a pure function of the rows, the options and the output
// format, so artifacts are keyed by a hash of exactly those inputs. Three
// backends implement [Cache]:
//   - [NullCache]: stores nothing, for --no-cache runs and tests
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//
// Keys come from a [Keyer], so deployments serving several tenants can
// prefix them with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// NullCache disables artifact caching: every lookup misses and writes are
// dropped. The CLI uses it for --no-cache and --cache-backend none, and
// the pipeline runner falls back to it when given a nil cache.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
