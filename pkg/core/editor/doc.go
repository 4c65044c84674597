// Package editor implements the interaction controller of the glycan editor.
//
// A [Controller] receives the raw events of a host (drag start, pointer
// deltas, release over a node, clicks) and turns them into tree edits:
//
//	drag event -> planner.Plan -> glycan.Tree mutation -> layout.Engine.Apply -> scene.Sync
//
// # Gestures
//
// Each drag gesture runs Idle -> Dragging -> Committed or Discarded -> Idle.
// [Controller.DragStart] creates a ghost node that is drawn on the surface
// but is not part of the tree. [Controller.DragMove] moves the ghost by
// pointer deltas in arrival order. [Controller.DragEnd] plans the drop and
// inserts the ghost, or discards it when the planner rejects the drop or no
// target was hit. Cancelling the gesture context or calling
// [Controller.Cancel] discards the ghost at the next event boundary. The tree
// is never modified before a commit.
//
// # Palette
//
// A [Palette] holds the toolbar selection. When a kind is selected, new
// nodes take that kind; otherwise they copy the node the gesture starts from.
//
// # Undo
//
// Committed insertions are recorded in a bounded [History];
// [Controller.Undo] removes the most recent one still in the tree.
package editor
