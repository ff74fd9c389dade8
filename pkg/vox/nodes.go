package vox

import "fmt"

// reservedNodeID fills the reserved field of transform nodes.
const reservedNodeID = -1

// NewMain returns the root chunk. It has no content; every model and scene
// graph chunk is one of its children.
func NewMain() *Chunk {
	return NewChunk(TagMain)
}

// NewPack returns a PACK chunk declaring the number of models.
func NewPack(models int) *Chunk {
	c := NewChunk(TagPack)
	c.AppendInt32(int32(models))
	return c
}

// NewSize returns a SIZE chunk holding a model's extent per axis.
func NewSize(x, y, z int) *Chunk {
	c := NewChunk(TagSize)
	c.AppendInt32(int32(x))
	c.AppendInt32(int32(y))
	c.AppendInt32(int32(z))
	return c
}

// VoxelChunk is an XYZI chunk: a voxel count followed by four-byte
// (x, y, z, color) records. The chunk is only reachable for reading and
// attaching, so the count cannot fall out of step with the records.
type VoxelChunk struct {
	chunk    *Chunk
	countOff int
}

// NewVoxels returns an XYZI chunk with a count of zero.
func NewVoxels() *VoxelChunk {
	c := NewChunk(TagXYZI)
	return &VoxelChunk{chunk: c, countOff: c.AppendInt32(0)}
}

// Chunk returns the underlying chunk for attaching it to a parent.
func (v *VoxelChunk) Chunk() *Chunk { return v.chunk }

// Add appends one voxel record and increments the count.
func (v *VoxelChunk) Add(x, y, z, color uint8) {
	v.chunk.AppendBytes(x, y, z, color)
	v.chunk.incrementCounter(v.countOff)
}

// Count returns the number of voxel records.
func (v *VoxelChunk) Count() int {
	return int(v.chunk.counter(v.countOff))
}

// NewTransform returns an nTRN node with an empty attribute dictionary and a
// single frame translating its child by t. Rotation is not supported.
func NewTransform(nodeID, childID int, t [3]int) *Chunk {
	c := NewChunk(TagTransform)
	c.AppendInt32(int32(nodeID))
	c.AppendDict(nil)
	c.AppendInt32(int32(childID))
	c.AppendInt32(reservedNodeID)
	c.AppendInt32(0) // layer
	c.AppendInt32(1) // frames
	c.AppendDict(Dict{{Key: "_t", Value: formatTranslation(t)}})
	return c
}

func formatTranslation(t [3]int) string {
	return fmt.Sprintf("%d %d %d", t[0], t[1], t[2])
}

// GroupNode is an nGRP node whose child count is kept in step with the
// child ids appended after it.
type GroupNode struct {
	chunk    *Chunk
	countOff int
}

// NewGroup returns an nGRP node with no children.
func NewGroup(nodeID int) *GroupNode {
	c := NewChunk(TagGroup)
	c.AppendInt32(int32(nodeID))
	c.AppendDict(nil)
	return &GroupNode{chunk: c, countOff: c.AppendInt32(0)}
}

// Chunk returns the underlying chunk for attaching it to a parent.
func (g *GroupNode) Chunk() *Chunk { return g.chunk }

// AddChildNode appends a child node id and increments the child count.
func (g *GroupNode) AddChildNode(nodeID int) {
	g.chunk.AppendInt32(int32(nodeID))
	g.chunk.incrementCounter(g.countOff)
}

// ChildCount returns the number of child node ids.
func (g *GroupNode) ChildCount() int {
	return int(g.chunk.counter(g.countOff))
}

// NewShape returns an nSHP node referencing exactly one model by its
// position in the file's model sequence.
func NewShape(nodeID, modelID int) *Chunk {
	c := NewChunk(TagShape)
	c.AppendInt32(int32(nodeID))
	c.AppendDict(nil)
	c.AppendInt32(1)
	c.AppendInt32(int32(modelID))
	c.AppendDict(nil)
	return c
}
