package scene

import (
	"fmt"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
)

// Op names a recorded surface call.
type Op string

const (
	OpRender  Op = "render"
	OpMove    Op = "move"
	OpRemove  Op = "remove"
	OpLinkage Op = "linkage"
)

// Call is one recorded surface call.
type Call struct {
	Op     Op
	Handle Handle
	Node   glycan.NodeID // OpRender only
	Kind   glycan.Kind   // OpRender only
	X, Y   float64       // OpRender and OpMove
	Parent Handle        // OpLinkage only
}

func (c Call) String() string {
	switch c.Op {
	case OpRender:
		return fmt.Sprintf("render #%d %s(%d) at (%.1f, %.1f)", c.Handle, c.Kind, c.Node, c.X, c.Y)
	case OpMove:
		return fmt.Sprintf("move #%d to (%.1f, %.1f)", c.Handle, c.X, c.Y)
	case OpLinkage:
		return fmt.Sprintf("link #%d -> #%d", c.Handle, c.Parent)
	}
	return fmt.Sprintf("%s #%d", c.Op, c.Handle)
}

// Mark is the recorder's view of a drawn node.
type Mark struct {
	Node glycan.NodeID
	Kind glycan.Kind
	X, Y float64
}

// Recorder is an in-memory Surface. It remembers every call and the
// resulting picture; tests and headless hosts use it.
type Recorder struct {
	Calls    []Call
	Marks    map[Handle]Mark
	Linkages map[Handle]Handle // child -> parent
	next     Handle
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Marks: make(map[Handle]Mark), Linkages: make(map[Handle]Handle)}
}

var _ Surface = (*Recorder)(nil)

func (r *Recorder) RenderNode(n *glycan.Node) Handle {
	r.next++
	h := r.next
	r.Marks[h] = Mark{Node: n.ID, Kind: n.Kind, X: n.X, Y: n.Y}
	r.Calls = append(r.Calls, Call{Op: OpRender, Handle: h, Node: n.ID, Kind: n.Kind, X: n.X, Y: n.Y})
	return h
}

func (r *Recorder) UpdateNodePosition(h Handle, x, y float64) {
	if m, ok := r.Marks[h]; ok {
		m.X, m.Y = x, y
		r.Marks[h] = m
	}
	r.Calls = append(r.Calls, Call{Op: OpMove, Handle: h, X: x, Y: y})
}

func (r *Recorder) RemoveNode(h Handle) {
	delete(r.Marks, h)
	delete(r.Linkages, h)
	r.Calls = append(r.Calls, Call{Op: OpRemove, Handle: h})
}

func (r *Recorder) RenderLinkage(child, parent Handle) {
	r.Linkages[child] = parent
	r.Calls = append(r.Calls, Call{Op: OpLinkage, Handle: child, Parent: parent})
}

// Reset forgets the recorded calls but keeps the picture.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Count returns how many recorded calls have the given op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}
