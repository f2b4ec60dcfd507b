// Package cache provides the byte-oriented cache used to reuse search
// results and to store layouts served by the API.
//
// Three backends implement [Cache]:
//
//   - [FileCache] stores entries as JSON files under a directory (CLI)
//   - [RedisCache] stores entries in Redis (server, shared deployments)
//   - [NullCache] stores nothing (--no-cache, tests)
//
// Keys are built by a [Keyer] so that every caller derives the same key
// from the same inputs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLs for cached data.
const (
	// TTLSearch is how long a search result is reused. Searches are
	// deterministic for a given seed, so the bound only limits disk use.
	TTLSearch = 7 * 24 * time.Hour

	// TTLStoredLayout is how long a layout produced through the API can be
	// fetched by its id.
	TTLStoredLayout = 24 * time.Hour
)

// Cache is a key/value store for serialized results.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// SearchKey returns the key of a search result. catalogHash identifies
	// the fixture catalog; params holds every other input that changes the
	// result and must be JSON-serializable.
	SearchKey(catalogHash string, params any) string

	// LayoutKey returns the key under which the API stores a layout.
	LayoutKey(id string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SearchKey implements Keyer.
func (DefaultKeyer) SearchKey(catalogHash string, params any) string {
	return hashKey("search", catalogHash, params)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(id string) string {
	return "layout:" + id
}

// NullCache stores nothing; every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache with caching disabled.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "prefix:<sha256 of the JSON encoding of parts>".
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}
