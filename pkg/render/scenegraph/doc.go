// Package scenegraph renders the scene graph of a decoded .vox file as a
// Graphviz diagram.
//
// Transform nodes appear as ellipses labelled with their translation, group
// nodes as boxes, shape nodes as rounded boxes, and each model as a 3D box
// with its size and voxel count. Edges follow child references.
//
//	f, _ := vox.Decode(r)
//	scene, _ := vox.DecodeScene(f.Main)
//	dot := scenegraph.ToDOT(scene, scenegraph.Options{Detailed: true})
//	svg, err := scenegraph.RenderSVG(ctx, dot)
package scenegraph
