// Package graph provides serialization types for glycan documents and layouts.
//
// This package defines the canonical wire format for GLYCOdraw data, used for
// JSON files, editing sessions, the structure library, API responses and
// cache keys.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Glycan], [Layout]: Serialization types (this package)
//   - pkg/core/glycan.Tree: Internal tree representation
//   - pkg/core/layout.Result: Internal layout (positions written on nodes)
//
// Use [FromTree]/[ToTree] and [FromResult] to convert between them.
//
// # Glycan Serialization
//
// Documents list nodes in pre-order, root first. Children are referenced by
// ID in drawing order; decorations carry their side and the sibling they hug:
//
//	{
//	  "nodes": [
//	    {"id": 1, "kind": "redEnd", "children": [2]},
//	    {"id": 2, "kind": "GlcNAc", "children": [4, 3]},
//	    {"id": 3, "kind": "Gal"},
//	    {"id": 4, "kind": "Fuc", "side": "above", "anchor": 3}
//	  ]
//	}
//
// Node IDs survive a round trip. [ToTree] advances the registry past the
// largest ID so that new nodes never collide with loaded ones.
//
// # Layout Serialization
//
// [Layout] is a discriminated union: "snfg" layouts carry positioned nodes
// and linkages, "nodelink" layouts carry a Graphviz DOT string.
package graph
