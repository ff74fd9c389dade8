package pipeline

import (
	"math"
	"testing"

	"github.com/matzehuels/voxgen/pkg/errors"
)

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if o.VoxelSize != DefaultVoxelSize {
		t.Errorf("VoxelSize = %g, want %g", o.VoxelSize, DefaultVoxelSize)
	}
	if o.MaxModelSize != DefaultMaxModelSize {
		t.Errorf("MaxModelSize = %d, want %d", o.MaxModelSize, DefaultMaxModelSize)
	}
	if o.Source != "-" {
		t.Errorf("Source = %q, want -", o.Source)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative voxel size", Options{VoxelSize: -1}, errors.ErrCodeInvalidInput},
		{"nan voxel size", Options{VoxelSize: math.NaN()}, errors.ErrCodeInvalidInput},
		{"infinite voxel size", Options{VoxelSize: math.Inf(1)}, errors.ErrCodeInvalidInput},
		{"negative model size", Options{MaxModelSize: -4}, errors.ErrCodeInvalidInput},
		{"model size too large", Options{MaxModelSize: 257}, errors.ErrCodeModelTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestValidateAcceptsLimit(t *testing.T) {
	o := Options{MaxModelSize: 256, VoxelSize: 0.1}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("256 should be accepted: %v", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{VoxelSize: 0.5, MaxModelSize: 64}
	k := o.ArtifactKeyOpts()
	if k.VoxelSize != 0.5 || k.MaxModelSize != 64 || k.Version != 150 {
		t.Errorf("ArtifactKeyOpts() = %+v", k)
	}
}
