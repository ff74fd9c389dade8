package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// isolate points the config and cache directories at fresh temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

// writeFile writes content to name inside a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runRoot executes the root command with args and returns its stdout.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// twoModelCloud spans two cells along X at the default model size.
const twoModelCloud = "0 0 0 1\n1 0 0 2\n130 0 0 3\n"

// convertFixture converts twoModelCloud and returns the .vox path.
func convertFixture(t *testing.T) string {
	t.Helper()
	isolate(t)
	in := writeFile(t, "cloud.xyz", twoModelCloud)
	out := filepath.Join(t.TempDir(), "cloud.vox")
	if _, err := runRoot(t, "-i", in, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	return out
}
