package scenegraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/voxgen/pkg/vox"
)

// Options configures scene graph rendering.
type Options struct {
	// Detailed adds translations, sizes and voxel counts to node labels.
	// When false, only node kinds and ids are shown.
	Detailed bool
}

// ToDOT converts a scene to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(s *vox.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, t := range s.Transforms {
		label := fmt.Sprintf("nTRN %d", t.ID)
		if opts.Detailed {
			if tr, err := t.Translation(); err == nil {
				label += fmt.Sprintf("\\nt: %d %d %d", tr[0], tr[1], tr[2])
			}
		}
		fmt.Fprintf(&buf, "  %s [shape=ellipse, label=\"%s\"];\n", nodeName(t.ID), label)
	}
	for _, g := range s.Groups {
		label := fmt.Sprintf("nGRP %d", g.ID)
		if opts.Detailed {
			label += fmt.Sprintf("\\n%d children", len(g.Children))
		}
		fmt.Fprintf(&buf, "  %s [shape=box, label=\"%s\"];\n", nodeName(g.ID), label)
	}
	for _, sh := range s.Shapes {
		fmt.Fprintf(&buf, "  %s [shape=box, style=\"rounded,filled\", fillcolor=lightgrey, label=\"nSHP %d\"];\n",
			nodeName(sh.ID), sh.ID)
	}
	for i, m := range s.Models {
		label := fmt.Sprintf("model %d", i)
		if opts.Detailed {
			label += fmt.Sprintf("\\n%dx%dx%d\\n%d voxels", m.Size[0], m.Size[1], m.Size[2], len(m.Voxels))
		}
		fmt.Fprintf(&buf, "  %s [shape=box3d, label=\"%s\"];\n", modelName(i), label)
	}

	buf.WriteString("\n")
	for _, t := range s.Transforms {
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(t.ID), nodeName(t.Child))
	}
	for _, g := range s.Groups {
		for _, c := range g.Children {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(g.ID), nodeName(c))
		}
	}
	for _, sh := range s.Shapes {
		for _, m := range sh.Models {
			fmt.Fprintf(&buf, "  %s -> %s [style=dashed];\n", nodeName(sh.ID), modelName(m.ID))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id int) string { return "n" + strings.ReplaceAll(strconv.Itoa(id), "-", "_") }

func modelName(i int) string { return "m" + strings.ReplaceAll(strconv.Itoa(i), "-", "_") }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg element with one whose
// width and height match the viewBox, so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
