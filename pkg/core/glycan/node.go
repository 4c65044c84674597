package glycan

import "slices"

// NodeID identifies a node within a registry. IDs are issued in strictly
// increasing order and only serve as a deterministic tie-break; they carry no
// structural meaning.
type NodeID int64

// NoNode is the zero NodeID. It marks an absent parent, anchor or target.
const NoNode NodeID = 0

// Node is a monosaccharide instance.
//
// Structure fields (Parent, Children) are owned by the [Tree] and must only be
// changed through its mutation methods. Layout fields (X, Y, EdgeRun) are
// written by the layout engine.
type Node struct {
	ID   NodeID
	Kind Kind
	// Side is the decoration side assigned at drop time. None for plain nodes.
	Side Side
	// Anchor is the sibling a planner-placed decoration hugs. Non-owning.
	Anchor NodeID

	Parent   NodeID
	Children []NodeID

	X, Y    float64
	EdgeRun bool

	Selected bool
}

// IsDecoration reports whether the node clings to one side of a sibling.
func (n *Node) IsDecoration() bool { return n.Side != None }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

func (n *Node) clone() *Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	return &c
}

// Registry issues node identifiers for one document. It holds no other state
// and is not safe for concurrent use.
type Registry struct {
	last NodeID
}

// NewRegistry returns a registry whose first issued ID is 1.
func NewRegistry() *Registry { return &Registry{} }

// Next issues a fresh identifier.
func (r *Registry) Next() NodeID {
	r.last++
	return r.last
}

// Last returns the most recently issued identifier (NoNode if none).
func (r *Registry) Last() NodeID { return r.last }

// Observe ensures every future identifier is greater than id. Decoders call it
// for each node they restore so that new nodes never collide with loaded ones.
func (r *Registry) Observe(id NodeID) {
	if id > r.last {
		r.last = id
	}
}

// Reset starts numbering again from 1. Call it only when a new document
// begins; trees built on the old numbering must be discarded.
func (r *Registry) Reset() { r.last = NoNode }

// NewNode creates a detached node of the given kind with its default
// decoration side.
func (r *Registry) NewNode(kind Kind) *Node {
	return &Node{
		ID:   r.Next(),
		Kind: kind,
		Side: kind.DefaultSide(),
	}
}
