// Package nodelink renders glycans as node-link diagrams.
//
// # Overview
//
// This package produces linkage-graph visualizations using Graphviz, where
// each monosaccharide is a node coloured and shaped after its SNFG symbol and
// each linkage is an edge. It complements the SNFG drawing of pkg/render/sink
// when a plain graph view is preferred, for example to debug decoration
// anchors.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated DOT ranks right-to-left (rankdir=RL) so that the reducing end
// sits on the right, as in the SNFG drawing. Decoration bonds run from the
// anchor sibling and are dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
