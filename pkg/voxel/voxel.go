// Package voxel defines the integer-lattice primitives shared by the reader,
// the partitioner and the pipeline.
//
// A [Position] is used both for absolute (quantized world) coordinates and for
// cell-local coordinates. A [Voxel] pairs a position with an 8-bit palette
// index; index 0 is treated as empty by consuming tools but is not rejected
// here. [Bounds] is an axis-aligned, inclusive box that starts empty and grows
// as positions are added.
package voxel

import (
	"fmt"
	"math"
)

// Position is an integer 3D coordinate (x, y, z).
type Position [3]int

// Sub returns p - o component-wise.
func (p Position) Sub(o Position) Position {
	return Position{p[0] - o[0], p[1] - o[1], p[2] - o[2]}
}

// Add returns p + o component-wise.
func (p Position) Add(o Position) Position {
	return Position{p[0] + o[0], p[1] + o[1], p[2] + o[2]}
}

// Scale returns p multiplied by s component-wise.
func (p Position) Scale(s int) Position {
	return Position{p[0] * s, p[1] * s, p[2] * s}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p[0], p[1], p[2])
}

// Voxel is a colored sample at an integer position. Immutable once read.
type Voxel struct {
	Pos   Position
	Color uint8
}

// Bounds is an inclusive axis-aligned bounding box.
// The zero value is not empty; use [NewBounds] for an empty box.
type Bounds struct {
	Min Position
	Max Position
}

// NewBounds returns an empty box: Min at +inf and Max at -inf on every axis,
// so the first [Bounds.Extend] sets both corners.
func NewBounds() Bounds {
	return Bounds{
		Min: Position{math.MaxInt, math.MaxInt, math.MaxInt},
		Max: Position{math.MinInt, math.MinInt, math.MinInt},
	}
}

// Empty reports whether no position has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows b to include p.
func (b *Bounds) Extend(p Position) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p Position) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Size returns the per-axis extent max-min+1. An empty box has size zero.
func (b Bounds) Size() Position {
	if b.Empty() {
		return Position{}
	}
	return Position{
		b.Max[0] - b.Min[0] + 1,
		b.Max[1] - b.Min[1] + 1,
		b.Max[2] - b.Min[2] + 1,
	}
}

// Center returns min + size/2 per axis (integer division), the point the
// scene graph translates a model to.
func (b Bounds) Center() Position {
	s := b.Size()
	return Position{b.Min[0] + s[0]/2, b.Min[1] + s[1]/2, b.Min[2] + s[2]/2}
}

// BoundsOf returns the tight bounds of voxels.
func BoundsOf(voxels []Voxel) Bounds {
	b := NewBounds()
	for _, v := range voxels {
		b.Extend(v.Pos)
	}
	return b
}
