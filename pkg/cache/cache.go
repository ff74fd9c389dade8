// Package cache stores conversion artifacts keyed by their inputs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON entry per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP endpoint
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are built by a [Keyer] so callers never hand-assemble them:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(input), cache.ArtifactKeyOpts{
//	    VoxelSize:    1,
//	    MaxModelSize: 126,
//	})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a cached .vox artifact.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (hit == false) and not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// ArtifactKeyOpts are the conversion options that change the output bytes.
type ArtifactKeyOpts struct {
	VoxelSize    float64 `json:"voxel_size"`
	MaxModelSize int     `json:"max_model_size"`
	Version      int     `json:"version"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of the .vox file converted from the input
	// whose SHA-256 is inputHash.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("vox", inputHash, opts)
}
