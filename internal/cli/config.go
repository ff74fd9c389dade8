package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/voxgen/pkg/cache"
	"github.com/matzehuels/voxgen/pkg/errors"
	"github.com/matzehuels/voxgen/pkg/partition"
	"github.com/matzehuels/voxgen/pkg/pipeline"
)

// Config holds settings read from the config file. Command-line flags
// override these values.
//
//	voxel_size = 0.1
//	max_model_size = 126
//
//	[cache]
//	enabled = true
//	redis_addr = "localhost:6379"
//	ttl = "168h"
type Config struct {
	VoxelSize    float64     `toml:"voxel_size"`
	MaxModelSize int         `toml:"max_model_size"`
	Cache        CacheConfig `toml:"cache"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Enabled   bool     `toml:"enabled"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a string ("36h", "90m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		VoxelSize:    pipeline.DefaultVoxelSize,
		MaxModelSize: pipeline.DefaultMaxModelSize,
		Cache: CacheConfig{
			Enabled: true,
			TTL:     Duration{cache.TTLArtifact},
		},
	}
}

// Validate checks value ranges.
func (cfg Config) Validate() error {
	if !(cfg.VoxelSize > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "voxel_size must be positive, got %g", cfg.VoxelSize)
	}
	if err := partition.ValidateEdge(cfg.MaxModelSize); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "max_model_size")
	}
	if cfg.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", cfg.Cache.TTL)
	}
	return nil
}

// LoadConfig reads path over the defaults. Keys missing from the file keep
// their default value; keys the file sets but Config does not know are
// returned so the caller can warn about them.
func LoadConfig(path string) (Config, []string, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return cfg, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("config %s: %w", path, err)
	}

	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return cfg, unknown, nil
}

// defaultConfigPath returns the config file to load when --config is not
// given, or "" if none exists.
func defaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadConfig resolves and loads the config file into c.Config. An explicit
// --config path must exist; the default path is optional.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		c.Config = DefaultConfig()
		return nil
	}

	cfg, unknown, err := LoadConfig(path)
	if err != nil {
		return err
	}
	if len(unknown) > 0 {
		c.Logger.Warn("ignoring unknown config keys", "file", path, "keys", strings.Join(unknown, ", "))
	}
	c.Logger.Debug("loaded config", "file", path)
	c.Config = cfg
	return nil
}
