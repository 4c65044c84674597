// Package sink renders glycans as SVG documents.
//
// # Overview
//
// [Surface] implements the editor's drawing surface ([scene.Surface]) on an
// in-memory SVG document. The interaction controller and the rendering
// pipeline both draw on it; [Surface.Bytes] and [Surface.WriteSVG] export the
// current drawing.
//
// Each monosaccharide is drawn with its SNFG symbol:
//
//   - reducing end: small circle
//   - Hex: circle; HexNAc: square; HexN: half-filled square
//   - HexA: half-filled diamond; Sia: diamond
//   - dHex: triangle; dHexNAc: half-filled triangle
//   - ddHex: flat rectangle; Pent: star
//
// AllA and IdoA are drawn mirrored. Linkages are straight lines between
// symbol centres, drawn underneath the symbols.
//
// # Usage
//
//	svg := sink.Render(tree, layout.DefaultConfig(), sink.WithXMLDeclaration())
//
// or, for a live editor:
//
//	surf := sink.NewSurface(sink.WithCanvas(800, 600))
//	ctrl := editor.New(tree, surf)
//	...
//	err := surf.WriteSVG(w)
//
// Documents list symbols by node ID, so the output depends only on the tree
// and its layout, not on the editing history.
//
// [scene.Surface]: github.com/matzehuels/glycodraw/pkg/core/scene.Surface
package sink
