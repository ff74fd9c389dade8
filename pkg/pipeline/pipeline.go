// Package pipeline converts point clouds into .vox files.
//
// This package implements the read → partition → build → encode pipeline used
// by the CLI commands and the HTTP endpoint, so both entry points share
// defaults, validation, caching and logging.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Read: parse the XYZ stream and quantize coordinates by VoxelSize
//  2. Partition: bucket the voxels into cells of at most MaxModelSize per edge
//  3. Build: turn every cell into a SIZE/XYZI model pair and place it in the
//     scene graph (see [BuildScene])
//  4. Encode: serialize the chunk tree behind the file header
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, input, pipeline.Options{
//	    VoxelSize: 0.1,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("out.vox", result.Artifact, 0644)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/voxgen/pkg/cache"
	"github.com/matzehuels/voxgen/pkg/errors"
	"github.com/matzehuels/voxgen/pkg/partition"
	"github.com/matzehuels/voxgen/pkg/vox"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultVoxelSize is the quantization unit: one input unit per voxel.
	DefaultVoxelSize = 1.0

	// DefaultMaxModelSize is the largest model edge written to the file.
	DefaultMaxModelSize = partition.DefaultMaxEdge
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one conversion.
// This struct supports JSON serialization for server requests.
type Options struct {
	// VoxelSize is the edge length of one voxel in input units.
	VoxelSize float64 `json:"voxel_size,omitempty"`

	// MaxModelSize is the cell edge used by the partitioner, in voxels.
	MaxModelSize int `json:"max_model_size,omitempty"`

	// Source names the input in logs and hooks (a path, or "-" for stdin).
	Source string `json:"source,omitempty"`

	// Refresh bypasses cache reads; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks option values and fills in defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.VoxelSize == 0 {
		o.VoxelSize = DefaultVoxelSize
	}
	if !(o.VoxelSize > 0) || math.IsInf(o.VoxelSize, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "voxel size must be a positive number, got %g", o.VoxelSize)
	}
	if o.MaxModelSize == 0 {
		o.MaxModelSize = DefaultMaxModelSize
	}
	if err := partition.ValidateEdge(o.MaxModelSize); err != nil {
		return err
	}
	if o.Source == "" {
		o.Source = "-"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for the encoded file.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		VoxelSize:    o.VoxelSize,
		MaxModelSize: o.MaxModelSize,
		Version:      vox.Version,
	}
}

// =============================================================================
// Result - Pipeline Output
// =============================================================================

// Result holds the output of one conversion.
type Result struct {
	// RunID identifies this execution in logs.
	RunID string `json:"run_id"`

	// Artifact is the complete .vox file.
	Artifact []byte `json:"-"`

	// InputHash is the SHA-256 of the input bytes.
	InputHash string `json:"input_hash"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Stats describes what a conversion did.
type Stats struct {
	Voxels    int  `json:"voxels"`
	Models    int  `json:"models"`
	Bytes     int  `json:"bytes"`
	Truncated bool `json:"truncated,omitempty"`

	ReadTime      time.Duration `json:"read_time"`
	PartitionTime time.Duration `json:"partition_time"`
	EncodeTime    time.Duration `json:"encode_time"`
}

// CacheInfo reports whether the artifact came from the cache.
type CacheInfo struct {
	Hit bool   `json:"hit"`
	Key string `json:"key"`
}
