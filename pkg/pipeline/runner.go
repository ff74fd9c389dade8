package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/voxgen/pkg/cache"
	"github.com/matzehuels/voxgen/pkg/observability"
	"github.com/matzehuels/voxgen/pkg/partition"
	"github.com/matzehuels/voxgen/pkg/vox"
	"github.com/matzehuels/voxgen/pkg/voxel"
	"github.com/matzehuels/voxgen/pkg/xyz"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it so caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	CacheTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, nothing is logged.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		CacheTTL: cache.TTLArtifact,
	}
}

// Execute reads an XYZ stream from input and converts it to a .vox file,
// serving the result from the cache when the same bytes were converted with
// the same options before.
func (r *Runner) Execute(ctx context.Context, input io.Reader, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.Source, err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		InputHash: cache.Hash(data),
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	key := r.Keyer.ArtifactKey(result.InputHash, opts.ArtifactKeyOpts())
	result.CacheInfo.Key = key

	if !opts.Refresh {
		if artifact, ok := r.lookup(ctx, key, logger); ok {
			result.Artifact = artifact
			result.CacheInfo.Hit = true
			result.Stats = statsFromArtifact(artifact)
			logger.Info("served from cache",
				"models", result.Stats.Models,
				"voxels", result.Stats.Voxels,
				"bytes", result.Stats.Bytes)
			return result, nil
		}
	}

	if err := r.convert(ctx, data, opts, logger, result); err != nil {
		return nil, err
	}

	if err := r.Cache.Set(ctx, key, result.Artifact, r.CacheTTL); err != nil {
		logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(result.Artifact))
	}
	return result, nil
}

// Convert runs the pipeline on data without consulting the cache.
func (r *Runner) Convert(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		InputHash: cache.Hash(data),
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	if err := r.convert(ctx, data, opts, logger, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Runner) convert(ctx context.Context, data []byte, opts Options, logger *log.Logger, result *Result) error {
	hooks := observability.Pipeline()

	// Stage 1: Read
	logger.Info("reading point cloud", "source", opts.Source, "voxel_size", opts.VoxelSize)
	hooks.OnReadStart(ctx, opts.Source)
	start := time.Now()
	cloud, err := xyz.Read(bytes.NewReader(data), opts.VoxelSize)
	result.Stats.ReadTime = time.Since(start)
	if err != nil {
		hooks.OnReadComplete(ctx, opts.Source, 0, result.Stats.ReadTime, err)
		return fmt.Errorf("read: %w", err)
	}
	hooks.OnReadComplete(ctx, opts.Source, cloud.Len(), result.Stats.ReadTime, nil)
	result.Stats.Voxels = cloud.Len()
	result.Stats.Truncated = cloud.Truncated
	logger.Info("read voxels",
		"voxels", cloud.Len(),
		"bounds", boundsString(cloud.Bounds),
		"duration", result.Stats.ReadTime)
	if cloud.Truncated {
		logger.Warn("input ended at a malformed record", "voxels", cloud.Len())
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Stage 2: Partition
	origin := voxel.Position{}
	if !cloud.Bounds.Empty() {
		origin = cloud.Bounds.Min
	}
	hooks.OnPartitionStart(ctx, cloud.Len(), opts.MaxModelSize)
	start = time.Now()
	grid, err := partition.Partition(cloud.Voxels, origin, opts.MaxModelSize)
	result.Stats.PartitionTime = time.Since(start)
	if err != nil {
		hooks.OnPartitionComplete(ctx, 0, result.Stats.PartitionTime, err)
		return fmt.Errorf("partition: %w", err)
	}
	hooks.OnPartitionComplete(ctx, grid.Len(), result.Stats.PartitionTime, nil)
	result.Stats.Models = grid.Len()
	logger.Info("partitioned voxels",
		"models", grid.Len(),
		"max_model_size", opts.MaxModelSize,
		"duration", result.Stats.PartitionTime)
	if err := ctx.Err(); err != nil {
		return err
	}

	// Stage 3: Build and encode
	hooks.OnEncodeStart(ctx, grid.Len())
	start = time.Now()
	artifact, err := vox.Marshal(BuildScene(grid))
	result.Stats.EncodeTime = time.Since(start)
	if err != nil {
		hooks.OnEncodeComplete(ctx, 0, result.Stats.EncodeTime, err)
		return fmt.Errorf("encode: %w", err)
	}
	hooks.OnEncodeComplete(ctx, len(artifact), result.Stats.EncodeTime, nil)
	result.Artifact = artifact
	result.Stats.Bytes = len(artifact)
	logger.Info("encoded file", "bytes", len(artifact), "duration", result.Stats.EncodeTime)
	return nil
}

// lookup returns a cached artifact. Entries that no longer decode are
// treated as misses.
func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		logger.Debug("cache miss", "key", key)
		return nil, false
	}
	if _, err := vox.Unmarshal(data); err != nil {
		logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return data, true
}

// statsFromArtifact recovers model and voxel counts from an encoded file.
func statsFromArtifact(data []byte) Stats {
	stats := Stats{Bytes: len(data)}
	f, err := vox.Unmarshal(data)
	if err != nil {
		return stats
	}
	scene, err := vox.DecodeScene(f.Main)
	if err != nil {
		return stats
	}
	stats.Models = len(scene.Models)
	for _, m := range scene.Models {
		stats.Voxels += len(m.Voxels)
	}
	return stats
}

func boundsString(b voxel.Bounds) string {
	if b.Empty() {
		return "empty"
	}
	return fmt.Sprintf("%v..%v", b.Min, b.Max)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
