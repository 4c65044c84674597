package graph

import (
	"strconv"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeSNFG     = "snfg"
	VizTypeNodelink = "nodelink"
)

// =============================================================================
// Glycan - Document Serialization
// =============================================================================

// Glycan is the canonical serialization format for glycan documents.
// Used for files, sessions, the structure library and API responses.
//
// Nodes are listed in pre-order with the root (the reducing end) first. Each
// node names its children in drawing order, so decoding restores sibling
// order, decoration sides and anchors exactly.
type Glycan struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Nodes []Node `json:"nodes" bson:"nodes"`
}

// Node is one monosaccharide in a [Glycan].
type Node struct {
	ID       int64   `json:"id" bson:"id"`
	Kind     string  `json:"kind" bson:"kind"`                             // SNFG symbol, e.g. "GlcNAc"
	Side     string  `json:"side,omitempty" bson:"side,omitempty"`         // "above", "below" or empty
	Anchor   int64   `json:"anchor,omitempty" bson:"anchor,omitempty"`     // decorated sibling
	Children []int64 `json:"children,omitempty" bson:"children,omitempty"` // drawing order
}

// Root returns the first node, or nil for an empty document.
func (g *Glycan) Root() *Node {
	if len(g.Nodes) == 0 {
		return nil
	}
	return &g.Nodes[0]
}

// =============================================================================
// Tree ↔ Glycan Conversion
// =============================================================================

// FromTree converts a tree to its serialization format.
func FromTree(t *glycan.Tree) Glycan {
	out := Glycan{Nodes: make([]Node, 0, t.Len())}
	t.Walk(func(n *glycan.Node, _ int) bool {
		out.Nodes = append(out.Nodes, nodeToWire(n))
		return true
	})
	return out
}

func nodeToWire(n *glycan.Node) Node {
	w := Node{
		ID:     int64(n.ID),
		Kind:   KindName(n.Kind),
		Side:   n.Side.String(),
		Anchor: int64(n.Anchor),
	}
	if len(n.Children) > 0 {
		w.Children = make([]int64, len(n.Children))
		for i, c := range n.Children {
			w.Children[i] = int64(c)
		}
	}
	return w
}

// ToTree rebuilds a tree, keeping node IDs. reg is advanced past the largest
// ID; a nil reg gets a fresh registry.
//
// Decoding fails with INVALID_FORMAT when the document is empty, a kind or
// side is unknown, an ID repeats, a child is missing, or the restored tree
// does not validate (for example two decorations on one side of a parent).
func ToTree(g Glycan, reg *glycan.Registry) (*glycan.Tree, error) {
	if len(g.Nodes) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "document has no nodes")
	}
	if reg == nil {
		reg = glycan.NewRegistry()
	}

	byID := make(map[int64]*Node, len(g.Nodes))
	nodes := make(map[int64]*glycan.Node, len(g.Nodes))
	for i := range g.Nodes {
		w := &g.Nodes[i]
		if w.ID <= 0 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "node %d: id must be positive", i)
		}
		if _, dup := byID[w.ID]; dup {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "duplicate node id %d", w.ID)
		}
		n, err := wireToNode(w)
		if err != nil {
			return nil, err
		}
		byID[w.ID] = w
		nodes[w.ID] = n
	}

	root := g.Nodes[0]
	t, err := glycan.NewEmptyTree(reg, nodes[root.ID])
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "node %d", root.ID)
	}

	// Anchors are restored once the child is attached because an Above
	// decoration precedes its anchor in drawing order. Validate checks them.
	queue := []int64{root.ID}
	for len(queue) > 0 {
		pid := queue[0]
		queue = queue[1:]
		for _, cid := range byID[pid].Children {
			child, ok := nodes[cid]
			if !ok {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "node %d lists unknown child %d", pid, cid)
			}
			anchor := child.Anchor
			child.Anchor = glycan.NoNode
			if err := t.AppendChild(glycan.NodeID(pid), child); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "attach %d to %d", cid, pid)
			}
			child.Anchor = anchor
			queue = append(queue, cid)
		}
	}

	if t.Len() != len(g.Nodes) {
		return nil, errs.New(errs.ErrCodeInvalidFormat,
			"%d of %d nodes are unreachable from the root", len(g.Nodes)-t.Len(), len(g.Nodes))
	}
	if err := t.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid document")
	}
	return t, nil
}

// KindName returns the wire name of k: its symbol, or its numeric code when
// the symbol is shared with another kind ("Sia").
func KindName(k glycan.Kind) string {
	if parsed, err := glycan.ParseKind(k.Symbol()); err == nil && parsed == k {
		return k.Symbol()
	}
	return strconv.Itoa(int(k))
}

func wireToNode(w *Node) (*glycan.Node, error) {
	kind, err := glycan.ParseKind(w.Kind)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "node %d", w.ID)
	}
	side, err := glycan.ParseSide(w.Side)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "node %d", w.ID)
	}
	if w.Anchor < 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "node %d: negative anchor %d", w.ID, w.Anchor)
	}
	return &glycan.Node{
		ID:     glycan.NodeID(w.ID),
		Kind:   kind,
		Side:   side,
		Anchor: glycan.NodeID(w.Anchor),
	}, nil
}
