// Package layout converts a glycan tree into pixel coordinates.
//
// # Overview
//
// The root sits at the right edge of the canvas and each level of depth
// moves one column to the left. Within a column, nodes are ordered top to
// bottom by a tidy tree pass (Buchheim/Walker, unit node size) whose
// separation function collapses decoration runs:
//
//  1. [Columns] groups nodes by depth in breadth-first order.
//  2. [MarkEdgeRuns] flags the Above decorations that open a column and the
//     Below decorations that close it.
//  3. The tidy pass assigns order values; [Separation] gives zero spacing
//     next to an edge run so the decoration shares the row of the node it
//     hugs.
//  4. Two linear scales map depth and order to pixels. Edge-run decorations
//     are moved one row up (Above) or down (Below).
//
// # Scales
//
// The depth domain is [0, Width/SymbolSize/2] and the order domain is
// [0, Height/SymbolSize/2]; both are extended to round ticks with
// [Scale.Nice]. For the default 800x600 canvas with 28px symbols this yields
// domains [0, 16] and [0, 11].
//
// # Preconditions
//
// [Engine.Apply] is total for well-formed trees and panics otherwise; a
// malformed tree is a programming error in the caller.
package layout
