package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/voxgen/pkg/errors"
	"github.com/matzehuels/voxgen/pkg/vox"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		interactive bool
		tree        bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file.vox]",
		Short: "Show the structure of a .vox file",
		Long: `Show the structure of a .vox file.

Prints the file version, the chunk tree with each chunk's content and
children sizes, and a table of models with their size, voxel count and
scene graph translation. The file is checked for consistency: declared
chunk sizes must match the bytes present and every scene graph reference
must resolve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, scene, err := loadVox(args[0])
			if err != nil {
				return err
			}
			if err := scene.Validate(); err != nil {
				printWarning("Scene graph is inconsistent: %v", err)
			}
			if interactive {
				_, err := tea.NewProgram(newModelBrowser(args[0], scene)).Run()
				return err
			}
			return writeInspect(cmd.OutOrStdout(), args[0], f, scene, tree)
		},
	}

	cmd.Flags().BoolVar(&interactive, "interactive", false, "browse models interactively")
	cmd.Flags().BoolVar(&tree, "tree", true, "print the chunk tree")

	return cmd
}

// loadVox decodes a .vox file and its scene graph.
func loadVox(path string) (*vox.File, *vox.Scene, error) {
	if err := errors.ValidateInputPath(path); err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := vox.Unmarshal(data)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", path)
	}
	scene, err := vox.DecodeScene(f.Main)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", path)
	}
	return f, scene, nil
}

func writeInspect(w io.Writer, path string, f *vox.File, scene *vox.Scene, tree bool) error {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(10)
	kv := func(k, v string) {
		fmt.Fprintln(w, keyStyle.Render(k)+" "+StyleValue.Render(v))
	}
	kv("File", path)
	kv("Version", strconv.Itoa(f.Version))
	kv("Size", formatBytes(8+f.Main.Size()))
	kv("Models", strconv.Itoa(len(scene.Models)))
	kv("Nodes", strconv.Itoa(len(scene.NodeIDs())))
	fmt.Fprintln(w)

	if tree {
		fmt.Fprintln(w, StyleTitle.Render("Chunks"))
		fmt.Fprint(w, chunkTree(f.Main))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, StyleTitle.Render("Models"))
	fmt.Fprintln(w, modelTable(scene).Render())
	return nil
}

// chunkTree renders one line per chunk, indented by depth.
func chunkTree(main *vox.Chunk) string {
	var b strings.Builder
	main.Walk(func(c *vox.Chunk, depth int) bool {
		fmt.Fprintf(&b, "%s%s %s\n",
			strings.Repeat("  ", depth),
			StyleHighlight.Render(c.Tag().String()),
			StyleDim.Render(fmt.Sprintf("content %d · children %d", c.ContentLen(), c.ChildrenSize())))
		return true
	})
	return b.String()
}

// modelTranslations maps model index to the translation of the transform
// whose shape references it.
func modelTranslations(s *vox.Scene) map[int][3]int {
	out := make(map[int][3]int)
	for _, t := range s.Transforms {
		sh, ok := s.Shape(t.Child)
		if !ok {
			continue
		}
		tr, err := t.Translation()
		if err != nil {
			continue
		}
		for _, m := range sh.Models {
			out[m.ID] = tr
		}
	}
	return out
}

// modelRows returns one table row per model.
func modelRows(s *vox.Scene) [][]string {
	trans := modelTranslations(s)
	rows := make([][]string, 0, len(s.Models))
	for i, m := range s.Models {
		placed := "—"
		if tr, ok := trans[i]; ok {
			placed = fmt.Sprintf("%d %d %d", tr[0], tr[1], tr[2])
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			fmt.Sprintf("%dx%dx%d", m.Size[0], m.Size[1], m.Size[2]),
			strconv.Itoa(len(m.Voxels)),
			placed,
		})
	}
	return rows
}

func modelTable(s *vox.Scene) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Size", "Voxels", "Translation").
		Rows(modelRows(s)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return cellStyle.Foreground(colorDim)
			}
			return cellStyle
		})
}
