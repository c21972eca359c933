// Package cache provides byte caches for computed layout snapshots and
// rendered artifacts.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries under a directory, used by the CLI
//   - [RedisCache]: shared cache for the playground server
//
// Keys are produced by a [Keyer] so that every entry point (CLI, server,
// tests) hashes the same inputs the same way.
package cache

import (
	"context"
	"time"
)

// Cache is a byte cache with per-entry expiration.
type Cache interface {
	// Get returns the cached data and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache never stores anything. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

// Default entry lifetimes.
const (
	TTLFixture  = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLResponse = time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts are the inputs that change a layout snapshot.
type LayoutKeyOpts struct {
	Kind          string   `json:"kind"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	ScrollX       float64  `json:"scroll_x"`
	ScrollY       float64  `json:"scroll_y"`
	RowHeight     float64  `json:"row_height"`
	HeadingHeight float64  `json:"heading_height"`
	Estimated     bool     `json:"estimated"`
	Persisted     []string `json:"persisted,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ResponseKey keys a raw response within a namespace (e.g. a server route).
	ResponseKey(namespace, key string) string
	// FixtureKey keys a parsed fixture by the hash of its source.
	FixtureKey(sourceHash string) string
	// LayoutKey keys a layout snapshot of a fixture.
	LayoutKey(fixtureHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact of a layout snapshot.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResponseKey returns "response:<namespace>:<key>".
func (DefaultKeyer) ResponseKey(namespace, key string) string {
	return "response:" + namespace + ":" + key
}

// FixtureKey returns "fixture:<hash>".
func (DefaultKeyer) FixtureKey(sourceHash string) string {
	return "fixture:" + sourceHash
}

// LayoutKey hashes the fixture hash together with opts.
func (DefaultKeyer) LayoutKey(fixtureHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", fixtureHash, opts)
}

// ArtifactKey hashes the layout hash together with opts.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
