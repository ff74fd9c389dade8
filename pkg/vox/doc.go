// Package vox encodes and decodes the chunked binary voxel container read by
// MagicaVoxel and compatible tools.
//
// # File Layout
//
// A file is the four magic bytes "VOX ", a little-endian int32 version (150)
// and one MAIN chunk. Every chunk is
//
//	tag             4 bytes
//	content length  4 bytes, little-endian
//	children length 4 bytes, little-endian (summed size of the child chunks)
//	content         content length bytes
//	children        chunks, in order
//
// All multi-byte integers are four-byte little-endian. Strings are a four-byte
// length followed by raw bytes; dictionaries are a four-byte entry count
// followed by key and value strings.
//
// # Building a File
//
// [Chunk] is the generic tree node. The variant constructors lay out the fixed
// content of each chunk type:
//
//	main := vox.NewMain()
//	main.AddChild(vox.NewPack(1))
//	main.AddChild(vox.NewSize(2, 1, 1))
//	xyzi := vox.NewVoxels()
//	xyzi.Add(0, 0, 0, 1)
//	xyzi.Add(1, 0, 0, 1)
//	main.AddChild(xyzi.Chunk())
//	main.AddChild(vox.NewTransform(0, 1, [3]int{}))
//	grp := vox.NewGroup(1)
//	grp.AddChildNode(2)
//	main.AddChild(grp.Chunk())
//	main.AddChild(vox.NewTransform(2, 3, [3]int{1, 0, 0}))
//	main.AddChild(vox.NewShape(3, 0))
//	err := vox.Encode(w, main)
//
// Sizes are never cached: [Chunk.Size] is recomputed from the tree when the
// file is written, so a chunk may keep growing until [Encode] is called.
//
// # Reading a File
//
// [Decode] parses any well-formed file back into a generic chunk tree and
// rejects size headers that disagree with the bytes present. [DecodeScene]
// interprets the model and scene graph chunks of a decoded MAIN chunk.
package vox
