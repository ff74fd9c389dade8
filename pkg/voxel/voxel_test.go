package voxel

import "testing"

func TestBoundsEmpty(t *testing.T) {
	b := NewBounds()
	if !b.Empty() {
		t.Fatal("NewBounds() should be empty")
	}
	if got := b.Size(); got != (Position{}) {
		t.Errorf("empty Size() = %v, want zero", got)
	}

	b.Extend(Position{3, -2, 7})
	if b.Empty() {
		t.Fatal("bounds should not be empty after Extend")
	}
	if b.Min != b.Max || b.Min != (Position{3, -2, 7}) {
		t.Errorf("single point bounds = %+v", b)
	}
	if got := b.Size(); got != (Position{1, 1, 1}) {
		t.Errorf("single point Size() = %v, want (1, 1, 1)", got)
	}
}

func TestBoundsOf(t *testing.T) {
	voxels := []Voxel{
		{Pos: Position{0, 5, 2}, Color: 1},
		{Pos: Position{4, 1, 2}, Color: 2},
		{Pos: Position{2, 3, 9}, Color: 3},
	}
	b := BoundsOf(voxels)

	if b.Min != (Position{0, 1, 2}) {
		t.Errorf("Min = %v, want (0, 1, 2)", b.Min)
	}
	if b.Max != (Position{4, 5, 9}) {
		t.Errorf("Max = %v, want (4, 5, 9)", b.Max)
	}
	if got := b.Size(); got != (Position{5, 5, 8}) {
		t.Errorf("Size() = %v, want (5, 5, 8)", got)
	}
	if got := b.Center(); got != (Position{2, 3, 6}) {
		t.Errorf("Center() = %v, want (2, 3, 6)", got)
	}
	for _, v := range voxels {
		if !b.Contains(v.Pos) {
			t.Errorf("bounds should contain %v", v.Pos)
		}
	}
	if b.Contains(Position{5, 1, 2}) {
		t.Error("bounds should not contain (5, 1, 2)")
	}
}

func TestPositionArithmetic(t *testing.T) {
	p := Position{130, 7, -1}
	o := Position{4, 7, -3}

	if got := p.Sub(o); got != (Position{126, 0, 2}) {
		t.Errorf("Sub = %v", got)
	}
	if got := p.Sub(o).Add(o); got != p {
		t.Errorf("Sub then Add = %v, want %v", got, p)
	}
	if got := (Position{1, 0, 2}).Scale(126); got != (Position{126, 0, 252}) {
		t.Errorf("Scale = %v", got)
	}
	if got := p.String(); got != "(130, 7, -1)" {
		t.Errorf("String() = %q", got)
	}
}
