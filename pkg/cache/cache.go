// Package cache provides content-addressed caching for the pipeline.
//
// Parsed graphs, computed layouts and rendered artifacts are keyed by the
// hash of the inputs that produced them, so identical schema and
// configuration hit the cache instead of recomputing. [FileCache] stores
// entries on disk for CLI usage; [NullCache] disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Stage TTLs. Entries are content-addressed, so they never go stale;
// the TTLs only bound disk growth for abandoned inputs.
const (
	TTLSchema   = 30 * 24 * time.Hour
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface for pipeline stage results.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value with an optional TTL (0 means no expiration).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// LayoutKeyOpts are the inputs beyond the schema that change a layout.
type LayoutKeyOpts struct {
	// ConfigHash is the hash of the effective configuration TOML.
	ConfigHash string
}

// ArtifactKeyOpts are the inputs beyond the layout that change a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  // svg, png, pdf, dot
	Scale    float64 // raster scale factor
	Detailed bool    // DOT label detail
}

// Keyer generates cache keys for the pipeline's three cacheable stages.
// Each stage key incorporates the content hash of the previous stage, so
// a schema edit invalidates everything downstream of it.
type Keyer interface {
	// SchemaKey generates a key for a parsed graph, from the schema text hash.
	SchemaKey(schemaHash string) string
	// LayoutKey generates a key for a computed layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SchemaKey generates a key for a parsed graph.
func (k *DefaultKeyer) SchemaKey(schemaHash string) string {
	return "schema:" + schemaHash
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
