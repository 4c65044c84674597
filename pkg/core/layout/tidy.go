package layout

import "github.com/matzehuels/glycodraw/pkg/core/glycan"

// SeparationFunc returns the gap between two adjacent nodes of one depth,
// upper first.
type SeparationFunc func(upper, lower *glycan.Node) float64

// Separation collapses decoration edge runs against their neighbour: a gap
// is zero when the upper node belongs to an Above edge run or the lower node
// belongs to a Below edge run, and one otherwise. Siblings and cousins are
// treated alike.
func Separation(upper, lower *glycan.Node) float64 {
	if upper.EdgeRun && upper.Side == glycan.Above {
		return 0
	}
	if lower.EdgeRun && lower.Side == glycan.Below {
		return 0
	}
	return 1
}

// tnode carries the per-node state of the Buchheim/Walker tidy tree pass.
type tnode struct {
	node     *glycan.Node
	parent   *tnode
	children []*tnode
	index    int // position among siblings

	ancestor *tnode // "a": greatest distinct ancestor candidate
	defAnc   *tnode // "A": default ancestor used by apportion
	thread   *tnode // "t": contour thread

	prelim float64 // "z"
	mod    float64 // "m"
	change float64 // "c"
	shift  float64 // "s"
}

func newTNode(n *glycan.Node, i int) *tnode {
	v := &tnode{node: n, index: i}
	v.ancestor = v
	return v
}

// tidy runs the linear-time tidy tree algorithm with unit node size and
// returns each node's order value. The root is at order 0.
func tidy(t *glycan.Tree, sep SeparationFunc) map[glycan.NodeID]float64 {
	root := newTNode(t.Root(), 0)
	stack := []*tnode{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		kids := t.Children(v.node.ID)
		if len(kids) == 0 {
			continue
		}
		v.children = make([]*tnode, len(kids))
		for i := len(kids) - 1; i >= 0; i-- {
			c := newTNode(kids[i], i)
			c.parent = v
			v.children[i] = c
			stack = append(stack, c)
		}
	}
	sentinel := &tnode{children: []*tnode{root}}
	root.parent = sentinel

	w := walker{sep: sep}
	for _, v := range postOrder(root) {
		w.firstWalk(v)
	}
	sentinel.mod = -root.prelim

	order := make(map[glycan.NodeID]float64, t.Len())
	for _, v := range preOrder(root) {
		order[v.node.ID] = v.prelim + v.parent.mod
		v.mod += v.parent.mod
	}
	return order
}

// postOrder lists children before parents, siblings in order.
func postOrder(root *tnode) []*tnode {
	var next []*tnode
	stack := []*tnode{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		next = append(next, v)
		stack = append(stack, v.children...)
	}
	for i, j := 0, len(next)-1; i < j; i, j = i+1, j-1 {
		next[i], next[j] = next[j], next[i]
	}
	return next
}

// preOrder lists parents before children, siblings in order.
func preOrder(root *tnode) []*tnode {
	var out []*tnode
	stack := []*tnode{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, v)
		for i := len(v.children) - 1; i >= 0; i-- {
			stack = append(stack, v.children[i])
		}
	}
	return out
}

type walker struct {
	sep SeparationFunc
}

func (w walker) gap(upper, lower *tnode) float64 { return w.sep(upper.node, lower.node) }

func (w walker) firstWalk(v *tnode) {
	siblings := v.parent.children
	var left *tnode
	if v.index > 0 {
		left = siblings[v.index-1]
	}
	if len(v.children) > 0 {
		executeShifts(v)
		mid := (v.children[0].prelim + v.children[len(v.children)-1].prelim) / 2
		if left != nil {
			v.prelim = left.prelim + w.gap(left, v)
			v.mod = v.prelim - mid
		} else {
			v.prelim = mid
		}
	} else if left != nil {
		v.prelim = left.prelim + w.gap(left, v)
	}
	anc := v.parent.defAnc
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.defAnc = w.apportion(v, left, anc)
}

func (w walker) apportion(v, left, ancestor *tnode) *tnode {
	if left == nil {
		return ancestor
	}
	vip, vop := v, v
	vim := left
	vom := vip.parent.children[0]
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod
	for {
		vim, vip = nextRight(vim), nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.ancestor = v
		shift := vim.prelim + sim - vip.prelim - sip + w.gap(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}
	if vim != nil && nextRight(vop) == nil {
		vop.thread = vim
		vop.mod += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.thread = vip
		vom.mod += sip - som
		ancestor = v
	}
	return ancestor
}

func nextLeft(v *tnode) *tnode {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

func nextRight(v *tnode) *tnode {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.thread
}

func nextAncestor(vim, v, ancestor *tnode) *tnode {
	if vim.ancestor.parent == v.parent {
		return vim.ancestor
	}
	return ancestor
}

func moveSubtree(wm, wp *tnode, shift float64) {
	change := shift / float64(wp.index-wm.index)
	wp.change -= change
	wp.shift += shift
	wm.change += change
	wp.prelim += shift
	wp.mod += shift
}

func executeShifts(v *tnode) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		c := v.children[i]
		c.prelim += shift
		c.mod += shift
		change += c.change
		shift += c.shift + change
	}
}
