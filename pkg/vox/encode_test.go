package vox

import (
	"bytes"
	"strings"
	"testing"
)

func sampleMain() *Chunk {
	main := NewMain()
	main.AddChild(NewPack(1))
	main.AddChild(NewSize(2, 1, 1))
	xyzi := NewVoxels()
	xyzi.Add(0, 0, 0, 1)
	xyzi.Add(1, 0, 0, 2)
	main.AddChild(xyzi.Chunk())
	return main
}

func TestEncodeHeader(t *testing.T) {
	data, err := Marshal(NewMain())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := cat([]byte("VOX "), le(150), []byte("MAIN"), le(0), le(0))
	if !bytes.Equal(data, want) {
		t.Errorf("bytes = % x, want % x", data, want)
	}
}

func TestEncodeLength(t *testing.T) {
	main := sampleMain()
	data, err := Marshal(main)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) != 8+main.Size() {
		t.Errorf("len = %d, want %d", len(data), 8+main.Size())
	}
	// MAIN children length covers every byte after the MAIN header.
	if got, want := data[16:20], le(int32(len(data)-20)); !bytes.Equal(got, want) {
		t.Errorf("MAIN children length = % x, want % x", got, want)
	}
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err == nil {
		t.Error("Encode(nil) expected error")
	}
	if err := Encode(&buf, NewPack(1)); err == nil {
		t.Error("Encode(PACK) expected error")
	}
	if err := Encode(&failWriter{}, NewMain()); err == nil {
		t.Error("Encode to failing writer expected error")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	data, err := Marshal(sampleMain())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Version != Version {
		t.Errorf("Version = %d, want %d", f.Version, Version)
	}

	var tags []string
	f.Main.Walk(func(c *Chunk, _ int) bool {
		tags = append(tags, c.Tag().String())
		return true
	})
	if got := strings.Join(tags, ","); got != "MAIN,PACK,SIZE,XYZI" {
		t.Errorf("tags = %s", got)
	}

	again, err := Marshal(f.Main)
	if err != nil {
		t.Fatalf("Marshal decoded: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Error("re-encoding the decoded tree changed the bytes")
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Marshal(sampleMain())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	badChildren := bytes.Clone(valid)
	copy(badChildren[16:20], le(int32(len(valid))))

	notMain := cat([]byte("VOX "), le(150), []byte("PACK"), le(4), le(0), le(1))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", []byte("VOX ")},
		{"bad magic", cat([]byte("VOXX"), valid[4:])},
		{"no chunk", valid[:8]},
		{"truncated", valid[:len(valid)-1]},
		{"trailing bytes", cat(valid, []byte{0})},
		{"children overflow", badChildren},
		{"first chunk not main", notMain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}
