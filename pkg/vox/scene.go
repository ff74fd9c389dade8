package vox

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Voxel is one decoded XYZI record in model coordinates.
type Voxel struct {
	X, Y, Z uint8
	Color   uint8
}

// Model is a SIZE chunk and the XYZI chunk that follows it.
type Model struct {
	Size   [3]int
	Voxels []Voxel
}

// Transform is a decoded nTRN node.
type Transform struct {
	ID       int
	Attrs    Dict
	Child    int
	Reserved int
	Layer    int
	Frames   []Dict
}

// Translation returns the "_t" attribute of the first frame. A transform
// without one translates by zero.
func (t Transform) Translation() ([3]int, error) {
	var out [3]int
	if len(t.Frames) == 0 {
		return out, nil
	}
	s, ok := t.Frames[0].Get("_t")
	if !ok {
		return out, nil
	}
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return out, fmt.Errorf("node %d: translation %q: want 3 components", t.ID, s)
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return out, fmt.Errorf("node %d: translation %q: %w", t.ID, s, err)
		}
		out[i] = v
	}
	return out, nil
}

// Group is a decoded nGRP node.
type Group struct {
	ID       int
	Attrs    Dict
	Children []int
}

// ShapeModel is one model reference of a shape node.
type ShapeModel struct {
	ID    int
	Attrs Dict
}

// Shape is a decoded nSHP node.
type Shape struct {
	ID     int
	Attrs  Dict
	Models []ShapeModel
}

// Scene is the interpreted content of a MAIN chunk.
type Scene struct {
	// PackCount is the model count declared by PACK, or -1 without one.
	PackCount  int
	Models     []Model
	Transforms []Transform
	Groups     []Group
	Shapes     []Shape
}

// DecodeScene interprets the model and scene graph children of main.
// Chunks of other types (palettes, materials, layers) are skipped.
func DecodeScene(main *Chunk) (*Scene, error) {
	s := &Scene{PackCount: -1}
	var pending *[3]int

	for _, c := range main.Children() {
		r := newContentReader(c)
		var err error
		switch c.Tag() {
		case TagPack:
			s.PackCount, err = r.readInt()
		case TagSize:
			var size [3]int
			for i := range size {
				if size[i], err = r.readInt(); err != nil {
					break
				}
			}
			pending = &size
		case TagXYZI:
			if pending == nil {
				return nil, fmt.Errorf("%s chunk without a preceding %s", TagXYZI, TagSize)
			}
			var m Model
			m.Size = *pending
			pending = nil
			m.Voxels, err = decodeVoxels(r)
			s.Models = append(s.Models, m)
		case TagTransform:
			var t Transform
			t, err = decodeTransform(r)
			s.Transforms = append(s.Transforms, t)
		case TagGroup:
			var g Group
			g, err = decodeGroup(r)
			s.Groups = append(s.Groups, g)
		case TagShape:
			var sh Shape
			sh, err = decodeShape(r)
			s.Shapes = append(s.Shapes, sh)
		default:
			continue
		}
		if err == nil {
			err = r.done()
		}
		if err != nil {
			return nil, err
		}
	}
	if pending != nil {
		return nil, fmt.Errorf("%s chunk without a following %s", TagSize, TagXYZI)
	}
	return s, nil
}

func decodeVoxels(r *contentReader) ([]Voxel, error) {
	n, err := r.readInt()
	if err != nil {
		return nil, err
	}
	b, err := r.readBytes(4 * n)
	if err != nil {
		return nil, err
	}
	voxels := make([]Voxel, n)
	for i := range voxels {
		rec := b[4*i : 4*i+4]
		voxels[i] = Voxel{X: rec[0], Y: rec[1], Z: rec[2], Color: rec[3]}
	}
	return voxels, nil
}

func decodeTransform(r *contentReader) (t Transform, err error) {
	if t.ID, err = r.readInt(); err != nil {
		return
	}
	if t.Attrs, err = r.readDict(); err != nil {
		return
	}
	if t.Child, err = r.readInt(); err != nil {
		return
	}
	if t.Reserved, err = r.readInt(); err != nil {
		return
	}
	if t.Layer, err = r.readInt(); err != nil {
		return
	}
	frames, err := r.readInt()
	if err != nil {
		return
	}
	for i := 0; i < frames; i++ {
		var d Dict
		if d, err = r.readDict(); err != nil {
			return
		}
		t.Frames = append(t.Frames, d)
	}
	return
}

func decodeGroup(r *contentReader) (g Group, err error) {
	if g.ID, err = r.readInt(); err != nil {
		return
	}
	if g.Attrs, err = r.readDict(); err != nil {
		return
	}
	n, err := r.readInt()
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		var id int
		if id, err = r.readInt(); err != nil {
			return
		}
		g.Children = append(g.Children, id)
	}
	return
}

func decodeShape(r *contentReader) (s Shape, err error) {
	if s.ID, err = r.readInt(); err != nil {
		return
	}
	if s.Attrs, err = r.readDict(); err != nil {
		return
	}
	n, err := r.readInt()
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		var m ShapeModel
		if m.ID, err = r.readInt(); err != nil {
			return
		}
		if m.Attrs, err = r.readDict(); err != nil {
			return
		}
		s.Models = append(s.Models, m)
	}
	return
}

// NodeIDs returns every scene graph node id in ascending order.
func (s *Scene) NodeIDs() []int {
	var ids []int
	for _, t := range s.Transforms {
		ids = append(ids, t.ID)
	}
	for _, g := range s.Groups {
		ids = append(ids, g.ID)
	}
	for _, sh := range s.Shapes {
		ids = append(ids, sh.ID)
	}
	slices.Sort(ids)
	return ids
}

// Transform returns the transform node with id.
func (s *Scene) Transform(id int) (Transform, bool) {
	for _, t := range s.Transforms {
		if t.ID == id {
			return t, true
		}
	}
	return Transform{}, false
}

// Shape returns the shape node with id.
func (s *Scene) Shape(id int) (Shape, bool) {
	for _, sh := range s.Shapes {
		if sh.ID == id {
			return sh, true
		}
	}
	return Shape{}, false
}

// Validate checks the scene graph's referential integrity: unique node ids,
// every referenced child present, every model reference in range, and a PACK
// count (if any) equal to the number of models.
func (s *Scene) Validate() error {
	if s.PackCount >= 0 && s.PackCount != len(s.Models) {
		return fmt.Errorf("%s declares %d models, file holds %d", TagPack, s.PackCount, len(s.Models))
	}

	ids := s.NodeIDs()
	known := make(map[int]bool, len(ids))
	for _, id := range ids {
		if known[id] {
			return fmt.Errorf("duplicate node id %d", id)
		}
		known[id] = true
	}

	for _, t := range s.Transforms {
		if !known[t.Child] {
			return fmt.Errorf("transform %d: unknown child node %d", t.ID, t.Child)
		}
		if _, err := t.Translation(); err != nil {
			return err
		}
	}
	for _, g := range s.Groups {
		for _, c := range g.Children {
			if !known[c] {
				return fmt.Errorf("group %d: unknown child node %d", g.ID, c)
			}
		}
	}
	for _, sh := range s.Shapes {
		for _, m := range sh.Models {
			if m.ID < 0 || m.ID >= len(s.Models) {
				return fmt.Errorf("shape %d: model %d out of range [0, %d)", sh.ID, m.ID, len(s.Models))
			}
		}
	}
	for i, m := range s.Models {
		for _, v := range m.Voxels {
			if int(v.X) >= m.Size[0] || int(v.Y) >= m.Size[1] || int(v.Z) >= m.Size[2] {
				return fmt.Errorf("model %d: voxel (%d, %d, %d) outside size %v", i, v.X, v.Y, v.Z, m.Size)
			}
		}
	}
	return nil
}
