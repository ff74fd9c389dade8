package pipeline

import (
	"github.com/matzehuels/voxgen/pkg/partition"
	"github.com/matzehuels/voxgen/pkg/vox"
)

// Scene graph node ids. The root transform and the group are fixed; model i
// is placed by transform ModelTransformID(i), whose child is shape
// ModelShapeID(i).
const (
	RootTransformID = 0
	RootGroupID     = 1
)

// ModelTransformID returns the node id of the transform placing model i.
func ModelTransformID(i int) int { return 2 + 2*i }

// ModelShapeID returns the node id of the shape referencing model i.
func ModelShapeID(i int) int { return 3 + 2*i }

// Translation returns where a cell's model is placed: the centre of the
// cell's occupied region in origin-shifted coordinates,
// cell*edge + min + (max-min+1)/2 per axis.
func Translation(g *partition.Grid, c *partition.Cell) [3]int {
	return [3]int(g.CellOrigin(c.Index).Add(c.Bounds.Center()))
}

// BuildScene turns a partitioned grid into a MAIN chunk tree.
//
// Models are numbered in [partition.Grid.Cells] order. MAIN's children are,
// in order: PACK, one SIZE/XYZI pair per model, the root transform, the
// group, then a transform/shape pair per model. Voxel coordinates in XYZI are
// relative to the minimum corner of the cell's occupied region.
func BuildScene(g *partition.Grid) *vox.Chunk {
	cells := g.Cells()

	main := vox.NewMain()
	main.AddChild(vox.NewPack(len(cells)))

	for _, c := range cells {
		size := c.Size()
		main.AddChild(vox.NewSize(size[0], size[1], size[2]))

		xyzi := vox.NewVoxels()
		for _, v := range c.Voxels {
			p := v.Pos.Sub(c.Bounds.Min)
			xyzi.Add(uint8(p[0]), uint8(p[1]), uint8(p[2]), v.Color)
		}
		main.AddChild(xyzi.Chunk())
	}

	main.AddChild(vox.NewTransform(RootTransformID, RootGroupID, [3]int{}))

	group := vox.NewGroup(RootGroupID)
	for i := range cells {
		group.AddChildNode(ModelTransformID(i))
	}
	main.AddChild(group.Chunk())

	for i, c := range cells {
		main.AddChild(vox.NewTransform(ModelTransformID(i), ModelShapeID(i), Translation(g, c)))
		main.AddChild(vox.NewShape(ModelShapeID(i), i))
	}
	return main
}
