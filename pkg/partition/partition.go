// Package partition buckets an unbounded voxel set into fixed-size cells.
//
// Every voxel is shifted by the cloud origin so that all coordinates are
// non-negative, then assigned to the cell local/edge (per axis) and relabelled
// with its cell-local coordinate local - cell*edge, which always lies in
// [0, edge-1]. Each cell later becomes one model in the output file.
//
// No voxel is dropped or deduplicated. A cell tracks the tight bounds of its
// cell-local coordinates as voxels are added, so a sparse cell reports the
// extent it actually occupies rather than the full edge cube.
//
//	grid, err := partition.Partition(cloud.Voxels, cloud.Bounds.Min, partition.DefaultMaxEdge)
//	for _, cell := range grid.Cells() {
//	    fmt.Println(cell.Index, cell.Size(), len(cell.Voxels))
//	}
package partition

import (
	"cmp"
	"slices"

	"github.com/matzehuels/voxgen/pkg/errors"
	"github.com/matzehuels/voxgen/pkg/voxel"
)

const (
	// DefaultMaxEdge is the default model edge length. It keeps every
	// cell-local coordinate well inside the unsigned byte range.
	DefaultMaxEdge = 126

	// MaxEdgeLimit is the largest edge whose cell-local coordinates
	// (0..edge-1) still fit in one byte.
	MaxEdgeLimit = 256
)

// Index addresses a cell in the 3D grid. (0, 0, 0) holds the origin.
type Index [3]int

// Cell is one bounded bucket of voxels in cell-local coordinates.
type Cell struct {
	Index  Index
	Voxels []voxel.Voxel
	Bounds voxel.Bounds
}

// Size returns the extent of the occupied region (max-min+1 per axis).
func (c *Cell) Size() voxel.Position {
	return c.Bounds.Size()
}

// Grid maps cell indices to cells for a fixed edge length and origin.
type Grid struct {
	edge   int
	origin voxel.Position
	cells  map[Index]*Cell
	count  int
}

// ValidateEdge checks that edge can be used as a model edge length.
func ValidateEdge(edge int) error {
	if edge < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max model size must be at least 1, got %d", edge)
	}
	if edge > MaxEdgeLimit {
		return errors.New(errors.ErrCodeModelTooLarge,
			"max model size %d exceeds %d: voxel coordinates would not fit in a byte", edge, MaxEdgeLimit)
	}
	return nil
}

// New returns an empty grid. origin must be the component-wise minimum of
// every voxel that will be added.
func New(origin voxel.Position, edge int) (*Grid, error) {
	if err := ValidateEdge(edge); err != nil {
		return nil, err
	}
	return &Grid{
		edge:   edge,
		origin: origin,
		cells:  make(map[Index]*Cell),
	}, nil
}

// Partition assigns every voxel to its cell. origin must be the component-wise
// minimum over voxels (the reader's bounding box minimum).
func Partition(voxels []voxel.Voxel, origin voxel.Position, edge int) (*Grid, error) {
	g, err := New(origin, edge)
	if err != nil {
		return nil, err
	}
	for _, v := range voxels {
		if err := g.Add(v); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Locate splits an origin-shifted, non-negative position into its cell index
// and cell-local coordinate.
func Locate(local voxel.Position, edge int) (Index, voxel.Position) {
	var idx Index
	var rel voxel.Position
	for i := 0; i < 3; i++ {
		idx[i] = local[i] / edge
		rel[i] = local[i] - idx[i]*edge
	}
	return idx, rel
}

// Add assigns v to its cell, creating the cell on first use.
func (g *Grid) Add(v voxel.Voxel) error {
	local := v.Pos.Sub(g.origin)
	for i := 0; i < 3; i++ {
		if local[i] < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "voxel %v lies below origin %v", v.Pos, g.origin)
		}
	}

	idx, rel := Locate(local, g.edge)
	c, ok := g.cells[idx]
	if !ok {
		c = &Cell{Index: idx, Bounds: voxel.NewBounds()}
		g.cells[idx] = c
	}
	c.Voxels = append(c.Voxels, voxel.Voxel{Pos: rel, Color: v.Color})
	c.Bounds.Extend(rel)
	g.count++
	return nil
}

// Edge returns the cell edge length.
func (g *Grid) Edge() int { return g.edge }

// Origin returns the world position of cell (0, 0, 0)'s corner.
func (g *Grid) Origin() voxel.Position { return g.origin }

// Len returns the number of non-empty cells.
func (g *Grid) Len() int { return len(g.cells) }

// VoxelCount returns the number of voxels added.
func (g *Grid) VoxelCount() int { return g.count }

// Cell returns the cell at idx.
func (g *Grid) Cell(idx Index) (*Cell, bool) {
	c, ok := g.cells[idx]
	return c, ok
}

// Cells returns all cells ordered by index (x, then y, then z). The order is
// stable for a given grid, so it can be used to number models.
func (g *Grid) Cells() []*Cell {
	cells := make([]*Cell, 0, len(g.cells))
	for _, c := range g.cells {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b *Cell) int {
		for i := 0; i < 3; i++ {
			if c := cmp.Compare(a.Index[i], b.Index[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return cells
}

// CellOrigin returns the origin-shifted position of a cell's corner.
func (g *Grid) CellOrigin(idx Index) voxel.Position {
	return voxel.Position(idx).Scale(g.edge)
}
