package glycan

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

var (
	// ErrUnknownKind is returned by [ParseKind] for symbols outside the catalog.
	ErrUnknownKind = errors.New("unknown monosaccharide kind")

	// ErrUnknownSide is returned by [ParseSide].
	ErrUnknownSide = errors.New("unknown decoration side")

	// ErrUnknownNode is returned by [Tree.Validate] when a child or anchor
	// reference points at a node that is not in the tree.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidRoot is returned by [NewEmptyTree] and [Tree.Validate] when
	// the root is missing, has a parent, or is not the reducing end.
	ErrInvalidRoot = errors.New("tree root must be a detached reducing end")

	// ErrBrokenLink is returned by [Tree.Validate] when a child's Parent does
	// not point back at the node listing it, or a node is listed twice.
	ErrBrokenLink = errors.New("parent/child link mismatch")

	// ErrTreeHasCycle is returned by [Tree.Validate] when a node is reachable
	// from itself.
	ErrTreeHasCycle = errors.New("tree contains a cycle")

	// ErrSlotViolation is returned by [Tree.Validate] when a parent carries
	// two decorations on the same side.
	ErrSlotViolation = errors.New("decoration slot exclusivity violated")

	// ErrDetachedAnchor is returned by [Tree.Validate] when a decoration's
	// anchor is not one of its siblings.
	ErrDetachedAnchor = errors.New("decoration anchor is not a sibling")
)

// Tree is a glycan rooted at a single reducing end. Nodes live in a flat
// table keyed by ID; each node lists its children by ID in drawing order.
//
// The zero value is not usable; create trees with [NewTree] or [NewEmptyTree].
// Tree is not safe for concurrent use.
type Tree struct {
	reg   *Registry
	nodes map[NodeID]*Node
	root  NodeID
}

// NewTree creates the empty document: a reducing-end root with a single
// GlcNAc child.
func NewTree(reg *Registry) *Tree {
	root := reg.NewNode(ReducingEnd)
	t := &Tree{reg: reg, nodes: map[NodeID]*Node{root.ID: root}, root: root.ID}
	first := reg.NewNode(GlcNAc)
	first.Parent = root.ID
	root.Children = append(root.Children, first.ID)
	t.nodes[first.ID] = first
	return t
}

// NewEmptyTree creates a tree holding only root, which must be a detached
// reducing-end node without children. The registry is advanced past root.ID.
func NewEmptyTree(reg *Registry, root *Node) (*Tree, error) {
	if root == nil || root.Kind != ReducingEnd || root.Parent != NoNode ||
		len(root.Children) > 0 || root.ID == NoNode {
		return nil, ErrInvalidRoot
	}
	reg.Observe(root.ID)
	return &Tree{reg: reg, nodes: map[NodeID]*Node{root.ID: root}, root: root.ID}, nil
}

// Registry returns the identifier source shared by this tree.
func (t *Tree) Registry() *Registry { return t.reg }

// Root returns the reducing-end node.
func (t *Tree) Root() *Node { return t.nodes[t.root] }

// Node returns the node with the given ID.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Contains reports whether id is part of the tree.
func (t *Tree) Contains(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int { return len(t.nodes) }

// Nodes returns every node sorted by ID.
func (t *Tree) Nodes() []*Node {
	out := slices.Collect(maps.Values(t.nodes))
	slices.SortFunc(out, func(a, b *Node) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Children returns the children of id in drawing order.
func (t *Tree) Children(id NodeID) []*Node {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, t.nodes[c])
	}
	return out
}

// Parent returns the parent of id, or nil for the root and unknown IDs.
func (t *Tree) Parent(id NodeID) *Node {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return t.nodes[n.Parent]
}

// SiblingIndex returns the position of id in its parent's children, or -1
// for the root and unknown IDs.
func (t *Tree) SiblingIndex(id NodeID) int {
	p := t.Parent(id)
	if p == nil {
		return -1
	}
	return slices.Index(p.Children, id)
}

// DecorationOccupant returns the child of owner that holds the given side.
func (t *Tree) DecorationOccupant(owner NodeID, side Side) (*Node, bool) {
	if side == None {
		return nil, false
	}
	n, ok := t.nodes[owner]
	if !ok {
		return nil, false
	}
	for _, c := range n.Children {
		if child := t.nodes[c]; child.Side == side {
			return child, true
		}
	}
	return nil, false
}

// LinkTarget returns the node the linkage of id is drawn to: its anchor when
// it decorates a sibling, its parent otherwise.
func (t *Tree) LinkTarget(id NodeID) NodeID {
	n, ok := t.nodes[id]
	if !ok {
		return NoNode
	}
	if n.Anchor != NoNode {
		if _, ok := t.nodes[n.Anchor]; ok {
			return n.Anchor
		}
	}
	return n.Parent
}

// Depth returns the number of edges between id and the root, or -1 for
// unknown IDs.
func (t *Tree) Depth(id NodeID) int {
	n, ok := t.nodes[id]
	if !ok {
		return -1
	}
	d := 0
	for n.Parent != NoNode {
		n = t.nodes[n.Parent]
		d++
	}
	return d
}

// IsAncestor reports whether a is a proper ancestor of b.
func (t *Tree) IsAncestor(a, b NodeID) bool {
	n, ok := t.nodes[b]
	if !ok || a == b {
		return false
	}
	for n.Parent != NoNode {
		if n.Parent == a {
			return true
		}
		n = t.nodes[n.Parent]
	}
	return false
}

// Walk visits nodes in pre-order (parent before children, children in drawing
// order). Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{t.root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[f.id]
		if !fn(n, f.depth) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.Children[i], f.depth + 1})
		}
	}
}

// AppendChild adds n at the end of parent's children.
func (t *Tree) AppendChild(parent NodeID, n *Node) error {
	p, ok := t.nodes[parent]
	if !ok {
		return errs.New(errs.ErrCodeInvalidTarget, "parent %d is not in the tree", parent)
	}
	return t.InsertChildAt(parent, n, len(p.Children))
}

// InsertChildAt adds n to parent's children at index, clamped to the valid
// range. n must be a detached leaf with an unused ID.
//
// Errors carry a code from pkg/errors:
//   - SLOT_CONFLICT when n is a decoration and parent already holds that side
//   - INVALID_TARGET when parent is unknown, n is already attached, its ID is
//     taken, it is a second reducing end, or its anchor is not a child of parent
//   - INVALID_INPUT / INVALID_KIND for malformed nodes
func (t *Tree) InsertChildAt(parent NodeID, n *Node, index int) error {
	if n == nil || n.ID == NoNode {
		return errs.New(errs.ErrCodeInvalidInput, "node must have an identifier")
	}
	if !n.Kind.Valid() {
		return errs.New(errs.ErrCodeInvalidKind, "node %d has unknown kind %d", n.ID, int(n.Kind))
	}
	p, ok := t.nodes[parent]
	if !ok {
		return errs.New(errs.ErrCodeInvalidTarget, "parent %d is not in the tree", parent)
	}
	if _, taken := t.nodes[n.ID]; taken || n.Parent != NoNode {
		return errs.New(errs.ErrCodeInvalidTarget, "node %d is already attached", n.ID)
	}
	if len(n.Children) > 0 {
		return errs.New(errs.ErrCodeInvalidInput, "node %d must be a leaf when attached", n.ID)
	}
	if n.Kind == ReducingEnd {
		return errs.New(errs.ErrCodeInvalidTarget, "a tree holds a single reducing end")
	}
	if n.Anchor != NoNode && !slices.Contains(p.Children, n.Anchor) {
		return errs.New(errs.ErrCodeInvalidTarget, "anchor %d is not a child of %d", n.Anchor, parent)
	}
	if occ, taken := t.DecorationOccupant(parent, n.Side); taken {
		return errs.New(errs.ErrCodeSlotConflict, "node %d already has a %s decoration (%d)", parent, n.Side, occ.ID)
	}

	index = max(0, min(index, len(p.Children)))
	p.Children = slices.Insert(p.Children, index, n.ID)
	n.Parent = parent
	t.nodes[n.ID] = n
	t.reg.Observe(n.ID)
	return nil
}

// RemoveChild detaches id from parent together with its subtree and any
// sibling decorations anchored to it. It reports false, leaving the tree
// untouched, when id is not among parent's children.
func (t *Tree) RemoveChild(parent, id NodeID) bool {
	p, ok := t.nodes[parent]
	if !ok || !slices.Contains(p.Children, id) {
		return false
	}

	// Decorations anchored to a removed sibling go with it.
	doomed := map[NodeID]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, c := range p.Children {
			if doomed[c] {
				continue
			}
			if a := t.nodes[c].Anchor; a != NoNode && doomed[a] {
				doomed[c] = true
				changed = true
			}
		}
	}

	p.Children = slices.DeleteFunc(p.Children, func(c NodeID) bool { return doomed[c] })
	for top := range doomed {
		t.nodes[top].Parent = NoNode
		stack := []NodeID{top}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, t.nodes[cur].Children...)
			delete(t.nodes, cur)
		}
	}
	return true
}

// Clone returns a deep copy sharing the registry.
func (t *Tree) Clone() *Tree {
	c := &Tree{reg: t.reg, nodes: make(map[NodeID]*Node, len(t.nodes)), root: t.root}
	for id, n := range t.nodes {
		c.nodes[id] = n.clone()
	}
	return c
}
