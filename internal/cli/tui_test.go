package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/voxgen/pkg/vox"
)

func browserFixture(n int) ModelBrowser {
	scene := &vox.Scene{PackCount: n}
	for i := 0; i < n; i++ {
		scene.Models = append(scene.Models, vox.Model{
			Size:   [3]int{1, 1, 1},
			Voxels: []vox.Voxel{{Color: uint8(i + 1)}},
		})
	}
	m := newModelBrowser("test.vox", scene)
	m.Height = 3
	return m
}

func press(m ModelBrowser, keys ...string) ModelBrowser {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(ModelBrowser)
	}
	return m
}

func TestModelBrowserNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantCursor int
		wantOffset int
	}{
		{"start", nil, 0, 0},
		{"up at top", []string{"up"}, 0, 0},
		{"down", []string{"down", "j"}, 2, 0},
		{"scroll", []string{"j", "j", "j"}, 3, 1},
		{"end", []string{"G"}, 9, 7},
		{"end then up", []string{"G", "k", "k", "k"}, 6, 6},
		{"home", []string{"G", "g"}, 0, 0},
		{"down at bottom", []string{"G", "j"}, 9, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(browserFixture(10), tt.keys...)
			if m.Cursor != tt.wantCursor || m.Offset != tt.wantOffset {
				t.Errorf("cursor/offset = %d/%d, want %d/%d", m.Cursor, m.Offset, tt.wantCursor, tt.wantOffset)
			}
		})
	}
}

func TestModelBrowserQuit(t *testing.T) {
	_, cmd := browserFixture(2).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModelBrowserWindowSize(t *testing.T) {
	next, _ := browserFixture(2).Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if h := next.(ModelBrowser).Height; h != 5 {
		t.Errorf("Height = %d, want minimum 5", h)
	}
}

func TestModelBrowserView(t *testing.T) {
	m := press(browserFixture(4), "j")
	view := m.View()

	if !strings.Contains(view, "test.vox") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "[2/4]") {
		t.Errorf("view missing position:\n%s", view)
	}
	if !strings.Contains(view, "1 colors: 2×1") {
		t.Errorf("view missing palette detail:\n%s", view)
	}

	empty := browserFixture(0).View()
	if !strings.Contains(empty, "no models") {
		t.Error("empty view missing placeholder")
	}
}
