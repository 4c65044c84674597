// Package scene keeps an external drawing surface in step with a glycan tree.
//
// The editor core never draws. After every layout pass it hands the tree to
// [Scene.Sync], which translates the difference between the tree and what the
// surface currently shows into [Surface] calls. Calls are issued in node-ID
// order so that two surfaces fed the same edits receive identical call
// sequences.
package scene

import (
	"maps"
	"slices"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
)

// Handle identifies a node drawn on a surface. Surfaces choose the values.
type Handle int

// NoHandle is returned for nodes that are not drawn.
const NoHandle Handle = 0

// Surface is the drawing capability the editor is given.
type Surface interface {
	// RenderNode draws n at its current position and returns its handle.
	RenderNode(n *glycan.Node) Handle
	// UpdateNodePosition moves a drawn node.
	UpdateNodePosition(h Handle, x, y float64)
	// RemoveNode erases a drawn node together with its linkage.
	RemoveNode(h Handle)
	// RenderLinkage draws (or redraws) the line from child to parent.
	RenderLinkage(child, parent Handle)
}

// Scene maps tree nodes to surface handles.
type Scene struct {
	surface Surface
	handles map[glycan.NodeID]Handle
	root    glycan.NodeID
}

// New returns a scene drawing on s. Nothing is drawn until the first Sync.
func New(s Surface) *Scene {
	return &Scene{surface: s, handles: make(map[glycan.NodeID]Handle)}
}

// Surface returns the surface the scene draws on.
func (s *Scene) Surface() Surface { return s.surface }

// Sync brings the surface up to date with t: new nodes are rendered, known
// nodes are moved, vanished nodes are removed, and one linkage per non-root
// node is drawn to its link target.
func (s *Scene) Sync(t *glycan.Tree) {
	nodes := t.Nodes()
	s.root = t.Root().ID

	for _, n := range nodes {
		if h, ok := s.handles[n.ID]; ok {
			s.surface.UpdateNodePosition(h, n.X, n.Y)
			continue
		}
		s.handles[n.ID] = s.surface.RenderNode(n)
	}

	for _, id := range slices.Sorted(maps.Keys(s.handles)) {
		if !t.Contains(id) {
			s.surface.RemoveNode(s.handles[id])
			delete(s.handles, id)
		}
	}

	for _, n := range nodes {
		if n.ID == s.root {
			continue
		}
		s.surface.RenderLinkage(s.handles[n.ID], s.handles[t.LinkTarget(n.ID)])
	}
}

// Adopt records that the node id is already drawn under h. The controller
// uses it to keep a committed ghost's drawing instead of redrawing it.
func (s *Scene) Adopt(id glycan.NodeID, h Handle) { s.handles[id] = h }

// Handle returns the handle of a drawn node.
func (s *Scene) Handle(id glycan.NodeID) (Handle, bool) {
	h, ok := s.handles[id]
	return h, ok
}

// RootHandle returns the handle of the root, the entry point for exporters.
func (s *Scene) RootHandle() Handle { return s.handles[s.root] }

// Len returns the number of drawn nodes.
func (s *Scene) Len() int { return len(s.handles) }

// Clear removes every drawn node from the surface.
func (s *Scene) Clear() {
	for _, id := range slices.Sorted(maps.Keys(s.handles)) {
		s.surface.RemoveNode(s.handles[id])
	}
	clear(s.handles)
	s.root = glycan.NoNode
}
