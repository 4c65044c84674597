// Package render provides output rendering for glycan drawings.
//
// # Overview
//
// This package contains the rendering pipeline that turns a laid-out glycan
// into files. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - SNFG symbol drawings (in [sink] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both renderers use them.
//
//	svg := sink.Render(tree, cfg)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # SNFG Drawings
//
// The [sink] subpackage implements the editor's drawing surface as an SVG
// document: one symbol per monosaccharide in the Symbol Nomenclature for
// Glycans, and one line per linkage.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the linkage graph with Graphviz.
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/glycodraw/pkg/render/sink
// [nodelink]: github.com/matzehuels/glycodraw/pkg/render/nodelink
package render
