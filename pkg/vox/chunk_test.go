package vox

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// le builds little-endian int32 fields.
func le(vals ...int32) []byte {
	var b []byte
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return b
}

func cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestNewTag(t *testing.T) {
	if got := NewTag("nTRN"); got != TagTransform {
		t.Errorf("NewTag(nTRN) = %v, want %v", got, TagTransform)
	}
	if got := TagXYZI.String(); got != "XYZI" {
		t.Errorf("String() = %q, want XYZI", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("NewTag(\"ABC\") did not panic")
		}
	}()
	NewTag("ABC")
}

func TestAppendFields(t *testing.T) {
	c := NewChunk(NewTag("TEST"))

	if off := c.AppendInt32(-1); off != 0 {
		t.Errorf("AppendInt32 offset = %d, want 0", off)
	}
	if off := c.AppendUint32(7); off != 4 {
		t.Errorf("AppendUint32 offset = %d, want 4", off)
	}
	if off := c.AppendBytes(1, 2, 3); off != 8 {
		t.Errorf("AppendBytes offset = %d, want 8", off)
	}
	if off := c.AppendString("ab"); off != 11 {
		t.Errorf("AppendString offset = %d, want 11", off)
	}

	want := cat(
		[]byte{0xff, 0xff, 0xff, 0xff},
		[]byte{7, 0, 0, 0},
		[]byte{1, 2, 3},
		[]byte{2, 0, 0, 0, 'a', 'b'},
	)
	if got := c.Content(); !bytes.Equal(got, want) {
		t.Errorf("Content() = % x, want % x", got, want)
	}
	if c.ContentLen() != len(want) {
		t.Errorf("ContentLen() = %d, want %d", c.ContentLen(), len(want))
	}
}

func TestAppendStringEmpty(t *testing.T) {
	c := NewChunk(NewTag("TEST"))
	c.AppendString("")
	if got := c.Content(); !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Errorf("Content() = % x, want 00 00 00 00", got)
	}
}

func TestAppendDict(t *testing.T) {
	tests := []struct {
		name string
		dict Dict
		want []byte
	}{
		{
			name: "empty",
			dict: nil,
			want: []byte{0, 0, 0, 0},
		},
		{
			name: "translation",
			dict: Dict{{Key: "_t", Value: "1 2 3"}},
			want: cat(le(1), le(2), []byte("_t"), le(5), []byte("1 2 3")),
		},
		{
			name: "order preserved",
			dict: Dict{{Key: "b", Value: ""}, {Key: "a", Value: "x"}},
			want: cat(le(2), le(1), []byte("b"), le(0), le(1), []byte("a"), le(1), []byte("x")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunk(NewTag("TEST"))
			c.AppendDict(tt.dict)
			got := c.Content()
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Content() = % x, want % x", got, tt.want)
			}
			if len(got) != tt.dict.encodedLen() {
				t.Errorf("len = %d, encodedLen() = %d", len(got), tt.dict.encodedLen())
			}
		})
	}
}

func TestContentIsCopy(t *testing.T) {
	c := NewChunk(NewTag("TEST"))
	c.AppendInt32(5)
	b := c.Content()
	b[0] = 99
	if c.Content()[0] != 5 {
		t.Error("mutating Content() result changed the chunk")
	}
}

func TestWriteToLeaf(t *testing.T) {
	c := NewChunk(NewTag("TEST"))
	c.AppendInt32(42)

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	want := cat([]byte("TEST"), le(4), le(0), le(42))
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("bytes = % x, want % x", buf.Bytes(), want)
	}
	if n != int64(len(want)) {
		t.Errorf("n = %d, want %d", n, len(want))
	}
}

func TestWriteToPreOrder(t *testing.T) {
	root := NewChunk(NewTag("ROOT"))
	a := NewChunk(NewTag("AAAA"))
	a.AppendInt32(1)
	b := NewChunk(NewTag("BBBB"))
	b.AppendInt32(2)
	aa := NewChunk(NewTag("AAA2"))
	a.AddChild(aa)
	root.AddChild(a)
	root.AddChild(b)

	var buf bytes.Buffer
	if _, err := root.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	want := cat(
		[]byte("ROOT"), le(0), le(16+12+16),
		[]byte("AAAA"), le(4), le(12), le(1),
		[]byte("AAA2"), le(0), le(0),
		[]byte("BBBB"), le(4), le(0), le(2),
	)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("bytes =\n% x\nwant\n% x", buf.Bytes(), want)
	}
}

// TestSizeMatchesWrite checks that every node in a built tree writes exactly
// Size() bytes.
func TestSizeMatchesWrite(t *testing.T) {
	main := NewMain()
	main.AddChild(NewPack(2))
	for i := 0; i < 2; i++ {
		main.AddChild(NewSize(3, 4, 5))
		xyzi := NewVoxels()
		for j := 0; j <= i; j++ {
			xyzi.Add(uint8(j), 1, 2, 3)
		}
		main.AddChild(xyzi.Chunk())
	}
	main.AddChild(NewTransform(0, 1, [3]int{}))
	g := NewGroup(1)
	g.AddChildNode(2)
	g.AddChildNode(4)
	main.AddChild(g.Chunk())
	main.AddChild(NewTransform(2, 3, [3]int{-10, 20, 300}))
	main.AddChild(NewShape(3, 0))

	main.Walk(func(c *Chunk, _ int) bool {
		var buf bytes.Buffer
		n, err := c.WriteTo(&buf)
		if err != nil {
			t.Fatalf("%s WriteTo: %v", c.Tag(), err)
		}
		if int(n) != c.Size() || buf.Len() != c.Size() {
			t.Errorf("%s: wrote %d (buffer %d), Size() = %d", c.Tag(), n, buf.Len(), c.Size())
		}
		return true
	})
}

func TestSizeTracksMutation(t *testing.T) {
	main := NewMain()
	xyzi := NewVoxels()
	main.AddChild(xyzi.Chunk())
	before := main.Size()

	xyzi.Add(1, 1, 1, 1)
	if got := main.Size(); got != before+4 {
		t.Errorf("Size() after Add = %d, want %d", got, before+4)
	}
}

type failWriter struct{ after int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWriteToError(t *testing.T) {
	root := NewMain()
	root.AddChild(NewPack(1))

	for after := 0; after < 3; after++ {
		if _, err := root.WriteTo(&failWriter{after: after}); err == nil {
			t.Errorf("after %d writes: expected error", after)
		}
	}
}

func TestWalk(t *testing.T) {
	root := NewMain()
	a := NewChunk(NewTag("AAAA"))
	a.AddChild(NewChunk(NewTag("CCCC")))
	root.AddChild(a)
	root.AddChild(NewChunk(NewTag("BBBB")))

	var got []string
	root.Walk(func(c *Chunk, depth int) bool {
		got = append(got, c.Tag().String()+string(rune('0'+depth)))
		return true
	})
	want := []string{"MAIN0", "AAAA1", "CCCC2", "BBBB1"}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d = %s, want %s", i, got[i], want[i])
		}
	}

	visits := 0
	root.Walk(func(*Chunk, int) bool {
		visits++
		return visits < 2
	})
	if visits != 2 {
		t.Errorf("early stop visited %d chunks, want 2", visits)
	}
}
