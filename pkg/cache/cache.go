// Package cache stores rendered artifacts keyed by seeds and configuration.
//
// A render is a pure function of its concrete seeds and configuration, so
// a cached PNG can be returned without repainting. Backends:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so callers never assemble them by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and whether it was found. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs.
const (
	// RenderTTL applies to rendered images.
	RenderTTL = 7 * 24 * time.Hour
	// ManifestTTL applies to scene manifests.
	ManifestTTL = 7 * 24 * time.Hour
)
