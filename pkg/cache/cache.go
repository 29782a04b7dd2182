// Package cache stores relaxed point sets between runs.
//
// Relaxing a large image takes seconds to minutes, while rendering the
// result is cheap. The pipeline therefore caches the point set keyed by
// the image content and every parameter that influences relaxation, and
// re-renders from the cached points when nothing changed.
//
// Two backends are provided: [FileCache] stores entries as JSON files
// under the XDG cache directory and [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// TTLPoints is how long a relaxed point set stays cached.
const TTLPoints = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// PointsKey identifies a relaxed point set.
	PointsKey(imageHash string, opts PointsKeyOpts) string
}

// PointsKeyOpts lists every input that changes a relaxed point set.
type PointsKeyOpts struct {
	Count           int     `json:"count"`
	Iterations      int     `json:"iterations"`
	Samples         int     `json:"samples"`
	WhiteCutoff     float64 `json:"white_cutoff"`
	Polarity        string  `json:"polarity"`
	Seed            int64   `json:"seed"`
	RejectionBudget int     `json:"rejection_budget"`
	MaxSize         int     `json:"max_size"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PointsKey implements Keyer.
func (DefaultKeyer) PointsKey(imageHash string, opts PointsKeyOpts) string {
	return hashKey("points", imageHash, opts)
}
