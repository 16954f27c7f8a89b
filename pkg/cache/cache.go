// Package cache stores pipeline results keyed by content hash.
//
// # Backends
//
//   - [FileCache]: entries as JSON files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers and CI runners
//   - [NullCache]: never stores anything, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys from the inputs of each pipeline stage. Layout keys
// hash the adjacency-list text with every option that changes node
// positions; artifact keys hash the laid-out graph with every option that
// changes the rendered bytes. Identical inputs therefore share entries
// across backends.
//
//	c := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().LayoutKey(cache.Hash([]byte(text)), opts)
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLLayout bounds how long a settled layout is reused.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact bounds how long a rendered artifact is reused.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the data stored under key. A missing or expired entry is
	// reported as a miss with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
