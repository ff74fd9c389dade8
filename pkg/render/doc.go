// Package render groups the visual renderers of decoded .vox files.
//
// The [scenegraph] subpackage draws the transform/group/shape hierarchy and
// the models it places as a Graphviz diagram (DOT, SVG or PNG). It backs the
// scene command and is useful for checking how a point cloud was split into
// models.
//
//	dot := scenegraph.ToDOT(scene, scenegraph.Options{Detailed: true})
//	svg, err := scenegraph.RenderSVG(ctx, dot)
//
// [scenegraph]: github.com/matzehuels/voxgen/pkg/render/scenegraph
package render
