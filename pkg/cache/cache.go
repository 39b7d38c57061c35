// Package cache memoizes analysis results.
//
// A [Cache] stores opaque byte values under string keys with an optional
// TTL. [FileCache] backs the CLI, [RedisCache] lets several workers or API
// servers share results, and [NullCache] disables caching. A [Keyer] derives
// keys from the annotation content hash and the analysis options, so the
// same sentence analyzed with the same options is computed once.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value store. Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}

// AnalysisKeyOpts are the analysis options that change a result.
type AnalysisKeyOpts struct {
	Strategy  string `json:"strategy"`
	MaxTrees  int    `json:"max_trees"`
	MaxSteps  int    `json:"max_steps"`
	MaxBound  int64  `json:"max_bound"`
	CountOnly bool   `json:"count_only"`
}

// Keyer derives cache keys.
type Keyer interface {
	// AnalysisKey is the key of a full analysis result.
	AnalysisKey(annotationHash string, opts AnalysisKeyOpts) string
	// BoundKey is the key of a Matrix-Tree bound, which depends on the
	// annotation only.
	BoundKey(annotationHash string) string
}

// DefaultKeyer builds keys as "kind:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey implements Keyer.
func (DefaultKeyer) AnalysisKey(annotationHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", annotationHash, opts)
}

// BoundKey implements Keyer.
func (DefaultKeyer) BoundKey(annotationHash string) string {
	return hashKey("bound", annotationHash)
}

// NullCache stores nothing; every Get is a miss.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
