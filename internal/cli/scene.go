package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/voxgen/pkg/errors"
	"github.com/matzehuels/voxgen/pkg/render/scenegraph"
)

// sceneCommand creates the scene command for drawing a file's scene graph.
func (c *CLI) sceneCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "scene [file.vox]",
		Short: "Render the scene graph of a .vox file",
		Long: `Render the scene graph of a .vox file.

Draws the root transform, the group, and one transform/shape pair per model
as a Graphviz diagram. The format is taken from --format, else from the
output file's extension, else DOT is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			switch format {
			case "dot", "svg", "png":
			default:
				return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of: dot, svg, png)", format)
			}

			_, scene, err := loadVox(args[0])
			if err != nil {
				return err
			}
			dot := scenegraph.ToDOT(scene, scenegraph.Options{Detailed: detailed})

			var out []byte
			switch format {
			case "dot":
				out = []byte(dot)
			case "svg":
				out, err = scenegraph.RenderSVG(cmd.Context(), dot)
			case "png":
				out, err = scenegraph.RenderPNG(cmd.Context(), dot)
			}
			if err != nil {
				return fmt.Errorf("render scene: %w", err)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.Logger.Debug("rendered scene", "models", len(scene.Models), "format", format)
			printSuccess("Rendered scene graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg, png")
	cmd.Flags().BoolVar(&detailed, "detailed", true, "label nodes with translations and model sizes")

	return cmd
}

// formatFromPath infers the output format from a file extension.
func formatFromPath(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "svg", "png":
		return ext
	default:
		return "dot"
	}
}
