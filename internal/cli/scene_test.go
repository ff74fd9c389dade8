package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/voxgen/pkg/errors"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "dot"},
		{"scene.dot", "dot"},
		{"scene.gv", "dot"},
		{"scene.svg", "svg"},
		{"scene.PNG", "png"},
		{"dir.svg/scene", "dot"},
	}
	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestSceneCommandDOT(t *testing.T) {
	path := convertFixture(t)

	out, err := runRoot(t, "scene", path)
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	if !strings.HasPrefix(out, "digraph scene {") {
		t.Fatalf("output is not DOT:\n%s", out)
	}
	for _, want := range []string{"n0 -> n1", "n1 -> n2", "n1 -> n4", "n3 -> m0", "t: 130 0 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestSceneCommandFile(t *testing.T) {
	path := convertFixture(t)
	out := filepath.Join(t.TempDir(), "scene.dot")

	if _, err := runRoot(t, "scene", path, "-o", out, "--detailed=false"); err != nil {
		t.Fatalf("scene: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "t: ") {
		t.Error("translations labelled with --detailed=false")
	}
}

func TestSceneCommandBadFormat(t *testing.T) {
	path := convertFixture(t)

	_, err := runRoot(t, "scene", path, "-f", "jpeg")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
