// Package cache provides caching for HTTP responses and rendered diagrams.
//
// Two backends are provided: [FileCache] for CLI usage (entries persist
// across invocations under a local directory) and [RedisCache] for server
// deployments. [NullCache] disables caching entirely.
//
// Keys are produced by a [Keyer] so callers never concatenate raw strings;
// [ScopedKeyer] adds a namespace prefix for per-account isolation.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
//
// Get returns (nil, false, nil) on a miss; errors are reserved for
// backend failures, never for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for the cacheable surfaces of the system.
type Keyer interface {
	// HTTPKey generates a key for an upstream HTTP response
	// (e.g. a Supabase REST query).
	HTTPKey(namespace, key string) string

	// DiagramKey generates a key for a rendered diagram artifact,
	// derived from the category content hash and render options.
	DiagramKey(contentHash string, opts DiagramKeyOpts) string
}

// DiagramKeyOpts captures the render options that affect diagram output.
type DiagramKeyOpts struct {
	Format   string // "mermaid", "dot", "svg", "pdf", "png"
	Detailed bool
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// DiagramKey generates a key for diagram artifact caching.
// Options are hashed into the key so different formats never collide.
func (k *DefaultKeyer) DiagramKey(contentHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", contentHash, opts.Format, opts.Detailed)
}
