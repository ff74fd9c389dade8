package vox

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the fixed size of a chunk header: tag, content length and
// children length, four bytes each.
const HeaderSize = 12

// Tag is a chunk's four-byte identifier.
type Tag [4]byte

// Chunk tags known to this package.
var (
	TagMain      = Tag{'M', 'A', 'I', 'N'}
	TagPack      = Tag{'P', 'A', 'C', 'K'}
	TagSize      = Tag{'S', 'I', 'Z', 'E'}
	TagXYZI      = Tag{'X', 'Y', 'Z', 'I'}
	TagTransform = Tag{'n', 'T', 'R', 'N'}
	TagGroup     = Tag{'n', 'G', 'R', 'P'}
	TagShape     = Tag{'n', 'S', 'H', 'P'}
)

// NewTag converts a four-character string to a Tag. It panics if s is not
// exactly four bytes long.
func NewTag(s string) Tag {
	if len(s) != 4 {
		panic(fmt.Sprintf("vox: tag %q must be 4 bytes", s))
	}
	var t Tag
	copy(t[:], s)
	return t
}

func (t Tag) String() string { return string(t[:]) }

// Chunk is a node of the chunk tree: a tag, an append-only content buffer and
// an ordered list of children it exclusively owns.
//
// Content only grows, except for counters that a variant reserved at
// construction time and patches in place as items are appended (see
// [VoxelChunk] and [GroupNode]).
type Chunk struct {
	tag      Tag
	content  []byte
	children []*Chunk
}

// NewChunk returns an empty chunk with no children.
func NewChunk(tag Tag) *Chunk {
	return &Chunk{tag: tag}
}

// Tag returns the chunk's identifier.
func (c *Chunk) Tag() Tag { return c.tag }

// Content returns a copy of the content bytes.
func (c *Chunk) Content() []byte { return bytes.Clone(c.content) }

// ContentLen returns the number of content bytes.
func (c *Chunk) ContentLen() int { return len(c.content) }

// Children returns the chunk's children in insertion order.
func (c *Chunk) Children() []*Chunk { return c.children }

// AddChild appends child. The parent takes ownership; a chunk must not be
// added to more than one parent.
func (c *Chunk) AddChild(child *Chunk) {
	c.children = append(c.children, child)
}

// AppendInt32 appends v as four little-endian bytes and returns the offset it
// was written at.
func (c *Chunk) AppendInt32(v int32) int {
	return c.AppendUint32(uint32(v))
}

// AppendUint32 appends v as four little-endian bytes and returns the offset it
// was written at.
func (c *Chunk) AppendUint32(v uint32) int {
	off := len(c.content)
	c.content = binary.LittleEndian.AppendUint32(c.content, v)
	return off
}

// AppendBytes appends raw single-byte fields and returns the offset of the
// first one.
func (c *Chunk) AppendBytes(b ...byte) int {
	off := len(c.content)
	c.content = append(c.content, b...)
	return off
}

// AppendString appends a four-byte length prefix followed by the raw bytes
// of s. There is no terminator.
func (c *Chunk) AppendString(s string) int {
	off := c.AppendUint32(uint32(len(s)))
	c.content = append(c.content, s...)
	return off
}

// AppendDict appends a four-byte entry count followed by each key and value
// as strings.
func (c *Chunk) AppendDict(d Dict) int {
	off := c.AppendUint32(uint32(len(d)))
	for _, e := range d {
		c.AppendString(e.Key)
		c.AppendString(e.Value)
	}
	return off
}

// incrementCounter adds one to the uint32 stored at off and returns the new
// value. off must come from an Append call on this chunk.
func (c *Chunk) incrementCounter(off int) uint32 {
	n := binary.LittleEndian.Uint32(c.content[off:]) + 1
	binary.LittleEndian.PutUint32(c.content[off:], n)
	return n
}

// counter reads the uint32 stored at off.
func (c *Chunk) counter(off int) uint32 {
	return binary.LittleEndian.Uint32(c.content[off:])
}

// Size returns the number of bytes the chunk occupies when written: header,
// content and every child subtree. It is computed from the current state.
func (c *Chunk) Size() int {
	return HeaderSize + len(c.content) + c.ChildrenSize()
}

// ChildrenSize returns the summed [Chunk.Size] of the immediate children.
func (c *Chunk) ChildrenSize() int {
	n := 0
	for _, child := range c.children {
		n += child.Size()
	}
	return n
}

// WriteTo writes the chunk and its subtree depth-first, pre-order: header,
// content, then each child. It implements io.WriterTo.
func (c *Chunk) WriteTo(w io.Writer) (int64, error) {
	var hdr [HeaderSize]byte
	copy(hdr[0:4], c.tag[:])
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(c.content)))
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(c.ChildrenSize()))

	written, err := writeAll(w, hdr[:])
	if err != nil {
		return written, fmt.Errorf("write %s header: %w", c.tag, err)
	}
	n, err := writeAll(w, c.content)
	written += n
	if err != nil {
		return written, fmt.Errorf("write %s content: %w", c.tag, err)
	}

	for _, child := range c.children {
		n, err := child.WriteTo(w)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func writeAll(w io.Writer, b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Walk calls fn for c and every descendant in pre-order, with the depth of
// each chunk (0 for c). Walk stops early if fn returns false.
func (c *Chunk) Walk(fn func(ch *Chunk, depth int) bool) {
	c.walk(fn, 0)
}

func (c *Chunk) walk(fn func(*Chunk, int) bool, depth int) bool {
	if !fn(c, depth) {
		return false
	}
	for _, child := range c.children {
		if !child.walk(fn, depth+1) {
			return false
		}
	}
	return true
}
