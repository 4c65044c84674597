package glycan

import (
	"fmt"
	"slices"
)

// Validate checks the structural invariants the layout engine relies on:
// a single detached reducing-end root, symmetric parent/child links, every
// node reachable exactly once, at most one decoration per side among any
// node's children, and anchors that are siblings of their decoration.
func (t *Tree) Validate() error {
	root, ok := t.nodes[t.root]
	if !ok || root.Kind != ReducingEnd || root.Parent != NoNode {
		return ErrInvalidRoot
	}
	if err := t.validateLinks(); err != nil {
		return err
	}
	return t.validateDecorations()
}

func (t *Tree) validateLinks() error {
	seen := make(map[NodeID]bool, len(t.nodes))
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return fmt.Errorf("%w: node %d reached twice", ErrTreeHasCycle, id)
		}
		seen[id] = true
		n := t.nodes[id]
		for _, c := range n.Children {
			child, ok := t.nodes[c]
			if !ok {
				return fmt.Errorf("%w: %d listed as child of %d", ErrUnknownNode, c, id)
			}
			if child.Parent != id {
				return fmt.Errorf("%w: %d lists %d whose parent is %d", ErrBrokenLink, id, c, child.Parent)
			}
			if child.Kind == ReducingEnd {
				return fmt.Errorf("%w: reducing end %d below the root", ErrInvalidRoot, c)
			}
			stack = append(stack, c)
		}
	}
	if len(seen) != len(t.nodes) {
		return fmt.Errorf("%w: %d of %d nodes unreachable from the root",
			ErrBrokenLink, len(t.nodes)-len(seen), len(t.nodes))
	}
	return nil
}

func (t *Tree) validateDecorations() error {
	for _, n := range t.nodes {
		var above, below int
		for _, c := range n.Children {
			child := t.nodes[c]
			switch child.Side {
			case Above:
				above++
			case Below:
				below++
			}
			if child.Anchor != NoNode && !slices.Contains(n.Children, child.Anchor) {
				return fmt.Errorf("%w: %d anchored to %d", ErrDetachedAnchor, c, child.Anchor)
			}
		}
		if above > 1 || below > 1 {
			return fmt.Errorf("%w: node %d has %d above and %d below", ErrSlotViolation, n.ID, above, below)
		}
	}
	return nil
}

// MustValidate panics when the tree violates its invariants. The layout
// engine calls it; a malformed tree there is a programming error.
func (t *Tree) MustValidate() {
	if err := t.Validate(); err != nil {
		panic(fmt.Sprintf("glycan: malformed tree: %v", err))
	}
}
