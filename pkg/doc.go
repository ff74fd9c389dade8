// Package pkg provides the core libraries for voxgen point cloud conversion.
//
// # Overview
//
// voxgen turns XYZ point clouds into MagicaVoxel .vox files. Points are
// snapped to a voxel lattice, split into models no larger than the format
// allows, and placed in the file's scene graph so the cloud appears whole
// when opened. The pkg directory is organized into these areas:
//
//  1. [voxel] - Integer lattice positions and bounding boxes
//  2. [xyz] - Reading and quantizing XYZ text streams
//  3. [partition] - Splitting a cloud into fixed-edge cells
//  4. [vox] - The .vox chunk tree, its encoder and decoder
//  5. [pipeline] - Orchestration (read → partition → encode) with caching
//  6. [cache] - Artifact caching backends (file, Redis, null)
//  7. [render/scenegraph] - Graphviz drawings of a file's scene graph
//
// # Architecture
//
// The data flow through voxgen:
//
//	XYZ text (file, stdin or HTTP body)
//	         ↓
//	    [xyz] package (parse + quantize by voxel size)
//	         ↓
//	    [partition] package (cells of at most 126 voxels per edge)
//	         ↓
//	    [pipeline] package (scene graph assembly)
//	         ↓
//	    [vox] package (chunk tree → bytes)
//	         ↓
//	    .vox file
//
// # Quick Start
//
// Convert a point cloud held in memory:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/voxgen/pkg/pipeline"
//	)
//
//	func main() {
//	    data, _ := os.ReadFile("cloud.xyz")
//	    runner := pipeline.NewRunner(nil, nil, nil)
//	    result, err := runner.Convert(context.Background(), data, pipeline.Options{
//	        VoxelSize: 0.1,
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//	    os.WriteFile("cloud.vox", result.Artifact, 0644)
//	}
//
// Build a file by hand with the chunk constructors:
//
//	main := vox.NewMain()
//	main.AddChild(vox.NewPack(1))
//	main.AddChild(vox.NewSize(1, 1, 1))
//	xyzi := vox.NewVoxels()
//	xyzi.Add(0, 0, 0, 1)
//	main.AddChild(xyzi.Chunk())
//	data, err := vox.Marshal(main)
//
// # Supporting Packages
//
// [errors] - Coded errors shared by the CLI and the HTTP endpoint.
//
// [observability] - Hooks for metrics and tracing around pipeline stages,
// cache lookups and HTTP requests.
//
// [buildinfo] - Version information injected at build time.
//
// [voxel]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/voxel
// [xyz]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/xyz
// [partition]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/partition
// [vox]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/vox
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/cache
// [render/scenegraph]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/render/scenegraph
// [errors]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/voxgen/pkg/buildinfo
package pkg
