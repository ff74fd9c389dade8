package cli

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/voxgen/pkg/errors"
)

func TestLoadVox(t *testing.T) {
	path := convertFixture(t)

	f, scene, err := loadVox(path)
	if err != nil {
		t.Fatalf("loadVox: %v", err)
	}
	if f.Main == nil || len(scene.Models) != 2 {
		t.Fatalf("unexpected decode: main=%v models=%d", f.Main, len(scene.Models))
	}
}

func TestLoadVoxInvalid(t *testing.T) {
	path := writeFile(t, "bad.vox", "VOX \x96\x00\x00\x00MAIN")

	_, _, err := loadVox(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestModelRows(t *testing.T) {
	_, scene, err := loadVox(convertFixture(t))
	if err != nil {
		t.Fatal(err)
	}

	got := modelRows(scene)
	want := [][]string{
		{"0", "2x1x1", "2", "1 0 0"},
		{"1", "1x1x1", "1", "130 0 0"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("modelRows = %v, want %v", got, want)
	}
}

func TestWriteInspect(t *testing.T) {
	path := convertFixture(t)
	f, scene, err := loadVox(path)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeInspect(&buf, path, f, scene, true); err != nil {
		t.Fatalf("writeInspect: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"150", "MAIN", "PACK", "XYZI", "nTRN", "nGRP", "nSHP", "130 0 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := writeInspect(&buf, path, f, scene, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "XYZI") {
		t.Error("chunk tree printed with tree=false")
	}
}

func TestChunkTreeDepth(t *testing.T) {
	f, _, err := loadVox(convertFixture(t))
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(chunkTree(f.Main), "\n"), "\n")
	// MAIN, PACK, 2x(SIZE, XYZI), root nTRN, nGRP, 2x(nTRN, nSHP)
	if len(lines) != 12 {
		t.Fatalf("lines = %d, want 12:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if strings.HasPrefix(lines[0], " ") {
		t.Errorf("MAIN indented: %q", lines[0])
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "  ") {
			t.Errorf("child not indented: %q", l)
		}
	}
}

func TestInspectCommand(t *testing.T) {
	path := convertFixture(t)

	out, err := runRoot(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, "nSHP") {
		t.Errorf("inspect output missing chunk tree:\n%s", out)
	}
}
