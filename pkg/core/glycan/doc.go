// Package glycan provides the tree model behind the glycan editor.
//
// # Overview
//
// A glycan is drawn as a tree of monosaccharide symbols rooted at a single
// reducing end. Children are ordered: their order is the top-to-bottom drawing
// order of the diagram. Some children are decorations (fucose, xylose) that
// hug a specific sibling from above or below instead of claiming a row of
// their own.
//
// # Basic Usage
//
// Every document owns a [Registry] issuing node identifiers. [NewTree]
// creates the empty document, a reducing end with one GlcNAc child:
//
//	reg := glycan.NewRegistry()
//	t := glycan.NewTree(reg)
//	gal := reg.NewNode(glycan.Gal)
//	err := t.AppendChild(t.Root().Children[0], gal)
//
// Mutations ([Tree.AppendChild], [Tree.InsertChildAt], [Tree.RemoveChild])
// keep the structure valid; [Tree.Validate] re-checks every invariant.
//
// # Decoration Slots
//
// Each node owns two decoration slots over its children list, Above and
// Below. At most one child may hold each side. Adding a second occupant fails
// with a SLOT_CONFLICT coded error from pkg/errors and leaves the tree as it
// was. A decoration placed next to a sibling records that sibling in
// [Node.Anchor]; the linkage line is drawn to the anchor ([Tree.LinkTarget]).
//
// # Storage
//
// Nodes live in a flat table keyed by [NodeID]; children are lists of IDs and
// the parent reference is a non-owning ID. Removing a node drops its subtree
// from the table.
//
// # Concurrency
//
// Trees and registries are single-owner and not safe for concurrent use.
package glycan
