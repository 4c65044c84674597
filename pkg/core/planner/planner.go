// Package planner decides where a dropped node lands in the glycan tree.
//
// Planning is a pure decision over the current tree: [Plan] inspects the
// anchor, its parent and the resolved positions of the anchor's children and
// returns a [Placement] or a coded error. [Apply] carries a placement out.
// A rejected plan leaves the tree untouched.
//
// Decorated drops (fucose, xylose and anything else dropped with a side)
// become siblings of the anchor, spliced in directly above or below it. Plain
// drops become children of the anchor and never land inside a decoration run:
// a plain node is never placed between a decoration and the sibling it hugs.
package planner

import (
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

// Drop describes the node being dropped.
type Drop struct {
	Kind glycan.Kind
	// Side is the candidate decoration side. None makes a plain drop; any
	// other value makes a decorated drop whose final side is chosen from Y.
	Side glycan.Side
	// Y is the drop point in the same pixel space as the tree's last layout.
	Y float64
}

// NewDrop returns a drop of kind at y carrying the kind's default side.
func NewDrop(kind glycan.Kind, y float64) Drop {
	return Drop{Kind: kind, Side: kind.DefaultSide(), Y: y}
}

// Placement is the outcome of a successful plan.
type Placement struct {
	Parent glycan.NodeID // node whose children list receives the drop
	Index  int           // insertion index in Parent's children
	Side   glycan.Side   // final decoration side
	Anchor glycan.NodeID // decorated sibling, NoNode for plain drops
}

// Plan computes where d lands when dropped onto anchor.
//
// It fails with INVALID_TARGET when anchor is not in the tree, when a
// decoration is dropped on the root or on a decoration of the opposite side,
// or when a second reducing end is dropped; with INVALID_KIND for unknown
// kinds; and with SLOT_CONFLICT when the chosen decoration side is taken.
func Plan(t *glycan.Tree, anchor glycan.NodeID, d Drop) (Placement, error) {
	if !d.Kind.Valid() {
		return Placement{}, errs.New(errs.ErrCodeInvalidKind, "unknown kind %d", int(d.Kind))
	}
	if d.Kind == glycan.ReducingEnd {
		return Placement{}, errs.New(errs.ErrCodeInvalidTarget, "a tree holds a single reducing end")
	}
	a, ok := t.Node(anchor)
	if !ok {
		return Placement{}, errs.New(errs.ErrCodeInvalidTarget, "node %d is not in the tree", anchor)
	}
	if d.Side != glycan.None {
		return planDecoration(t, a, d)
	}
	return planPlain(t, a, d), nil
}

func planDecoration(t *glycan.Tree, a *glycan.Node, d Drop) (Placement, error) {
	side := glycan.Below
	if d.Y < a.Y {
		side = glycan.Above
	}
	if a.Parent == glycan.NoNode {
		return Placement{}, errs.New(errs.ErrCodeInvalidTarget, "the root cannot be decorated")
	}
	if a.IsDecoration() && a.Side != side {
		return Placement{}, errs.New(errs.ErrCodeInvalidTarget,
			"%s decoration %d cannot carry a %s decoration", a.Side, a.ID, side)
	}
	if occ, taken := t.DecorationOccupant(a.Parent, side); taken {
		return Placement{}, errs.New(errs.ErrCodeSlotConflict,
			"%s slot of node %d is held by %d", side, a.Parent, occ.ID)
	}

	index := t.SiblingIndex(a.ID)
	if side == glycan.Below {
		index++
	}
	return Placement{Parent: a.Parent, Index: index, Side: side, Anchor: a.ID}, nil
}

func planPlain(t *glycan.Tree, a *glycan.Node, d Drop) Placement {
	kids := t.Children(a.ID)
	index := len(kids)
	for i, c := range kids {
		if c.Y > d.Y {
			index = i
			break
		}
	}
	index = escapeRuns(kids, index)
	return Placement{Parent: a.ID, Index: index, Side: glycan.None}
}

// escapeRuns moves a candidate insertion index out of any decoration run:
// up past Above decorations hugging the child at the slot, otherwise down past
// Below decorations hugging the child before it.
func escapeRuns(kids []*glycan.Node, index int) int {
	moved := false
	for index > 0 && kids[index-1].Side == glycan.Above {
		index--
		moved = true
	}
	if moved {
		return index
	}
	for index < len(kids) && kids[index].Side == glycan.Below {
		index++
	}
	return index
}

// Apply assigns the placement's side and anchor to n and inserts it. On error
// n is restored and the tree is unchanged.
func Apply(t *glycan.Tree, n *glycan.Node, p Placement) error {
	side, anchor := n.Side, n.Anchor
	n.Side, n.Anchor = p.Side, p.Anchor
	if err := t.InsertChildAt(p.Parent, n, p.Index); err != nil {
		n.Side, n.Anchor = side, anchor
		return err
	}
	return nil
}
