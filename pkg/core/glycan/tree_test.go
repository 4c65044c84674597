package glycan

import (
	"errors"
	"slices"
	"testing"

	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

func (t *Tree) nodeForTest(id NodeID) *Node {
	n, _ := t.Node(id)
	return n
}

// fixture builds root -> a -> {b, c} and returns the tree plus IDs.
func fixture(t *testing.T) (tr *Tree, a, b, c NodeID) {
	t.Helper()
	reg := NewRegistry()
	tr = NewTree(reg)
	a = tr.Root().Children[0]
	nb, nc := reg.NewNode(Gal), reg.NewNode(Man)
	if err := tr.AppendChild(a, nb); err != nil {
		t.Fatal(err)
	}
	if err := tr.AppendChild(a, nc); err != nil {
		t.Fatal(err)
	}
	return tr, a, nb.ID, nc.ID
}

func TestNewTree(t *testing.T) {
	tr := NewTree(NewRegistry())

	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	root := tr.Root()
	if root.Kind != ReducingEnd || root.Parent != NoNode {
		t.Errorf("root = %+v", root)
	}
	kids := tr.Children(root.ID)
	if len(kids) != 1 || kids[0].Kind != GlcNAc {
		t.Errorf("root children = %v, want one GlcNAc", kids)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRegistryMonotonic(t *testing.T) {
	reg := NewRegistry()
	prev := NoNode
	for range 5 {
		id := reg.Next()
		if id <= prev {
			t.Fatalf("Next() = %d after %d", id, prev)
		}
		prev = id
	}
	reg.Observe(100)
	if id := reg.Next(); id != 101 {
		t.Errorf("Next() after Observe(100) = %d, want 101", id)
	}
	reg.Observe(3)
	if reg.Last() != 101 {
		t.Errorf("Observe lowered Last() to %d", reg.Last())
	}
	reg.Reset()
	if id := reg.Next(); id != 1 {
		t.Errorf("Next() after Reset = %d, want 1", id)
	}
}

func TestInsertChildAt(t *testing.T) {
	tr, a, b, c := fixture(t)
	reg := tr.Registry()

	n := reg.NewNode(GalNAc)
	if err := tr.InsertChildAt(a, n, 1); err != nil {
		t.Fatal(err)
	}
	if got := tr.nodeForTest(a); !slices.Equal(got.Children, []NodeID{b, n.ID, c}) {
		t.Errorf("children = %v", got.Children)
	}

	// Index is clamped.
	m := reg.NewNode(Glc)
	if err := tr.InsertChildAt(a, m, 99); err != nil {
		t.Fatal(err)
	}
	if idx := tr.SiblingIndex(m.ID); idx != 3 {
		t.Errorf("SiblingIndex = %d, want 3", idx)
	}
	if n.Parent != a {
		t.Errorf("Parent = %d, want %d", n.Parent, a)
	}
}

func TestInsertRejections(t *testing.T) {
	tr, a, b, _ := fixture(t)
	reg := tr.Registry()

	fuc := reg.NewNode(Fuc)
	fuc.Anchor = b
	if err := tr.InsertChildAt(a, fuc, 0); err != nil {
		t.Fatalf("first decoration: %v", err)
	}

	tests := []struct {
		name   string
		parent NodeID
		node   func() *Node
		code   errs.Code
	}{
		{
			name:   "second above decoration",
			parent: a,
			node:   func() *Node { return reg.NewNode(Fuc) },
			code:   errs.ErrCodeSlotConflict,
		},
		{
			name:   "unknown parent",
			parent: 999,
			node:   func() *Node { return reg.NewNode(Gal) },
			code:   errs.ErrCodeInvalidTarget,
		},
		{
			name:   "already attached",
			parent: a,
			node:   func() *Node { return tr.nodeForTest(b) },
			code:   errs.ErrCodeInvalidTarget,
		},
		{
			name:   "second reducing end",
			parent: a,
			node:   func() *Node { return reg.NewNode(ReducingEnd) },
			code:   errs.ErrCodeInvalidTarget,
		},
		{
			name:   "anchor not a sibling",
			parent: b,
			node: func() *Node {
				n := reg.NewNode(Xyl)
				n.Side = Below
				n.Anchor = a
				return n
			},
			code: errs.ErrCodeInvalidTarget,
		},
		{
			name:   "unknown kind",
			parent: a,
			node:   func() *Node { return &Node{ID: reg.Next(), Kind: 53} },
			code:   errs.ErrCodeInvalidKind,
		},
		{
			name:   "nil node",
			parent: a,
			node:   func() *Node { return nil },
			code:   errs.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := slices.Clone(tr.nodeForTest(a).Children)
			err := tr.AppendChild(tt.parent, tt.node())
			if !errs.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
			if got := tr.nodeForTest(a).Children; !slices.Equal(got, before) {
				t.Errorf("children changed: %v -> %v", before, got)
			}
		})
	}

	// The other side is still free.
	below := reg.NewNode(Fuc)
	below.Side = Below
	if err := tr.AppendChild(a, below); err != nil {
		t.Errorf("below decoration: %v", err)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRemoveChild(t *testing.T) {
	tr, a, b, c := fixture(t)
	reg := tr.Registry()

	before := slices.Clone(tr.nodeForTest(a).Children)
	n := reg.NewNode(GlcNAc)
	if err := tr.InsertChildAt(a, n, 1); err != nil {
		t.Fatal(err)
	}
	if !tr.RemoveChild(a, n.ID) {
		t.Fatal("RemoveChild returned false")
	}
	if got := tr.nodeForTest(a).Children; !slices.Equal(got, before) {
		t.Errorf("children = %v, want %v", got, before)
	}
	if n.Parent != NoNode || tr.Contains(n.ID) {
		t.Errorf("removed node still linked: parent=%d contains=%v", n.Parent, tr.Contains(n.ID))
	}

	// Not a child of the claimed parent: no-op.
	if tr.RemoveChild(b, c) {
		t.Error("RemoveChild(b, c) = true, want false")
	}
	if tr.RemoveChild(999, c) {
		t.Error("RemoveChild on unknown parent = true")
	}
}

func TestRemoveChildCascade(t *testing.T) {
	tr, a, b, c := fixture(t)
	reg := tr.Registry()

	grand := reg.NewNode(Gal)
	if err := tr.AppendChild(b, grand); err != nil {
		t.Fatal(err)
	}
	fuc := reg.NewNode(Fuc)
	fuc.Anchor = b
	if err := tr.InsertChildAt(a, fuc, 0); err != nil {
		t.Fatal(err)
	}

	if !tr.RemoveChild(a, b) {
		t.Fatal("RemoveChild returned false")
	}
	for _, id := range []NodeID{b, grand.ID, fuc.ID} {
		if tr.Contains(id) {
			t.Errorf("node %d still in tree", id)
		}
	}
	if got := tr.nodeForTest(a).Children; !slices.Equal(got, []NodeID{c}) {
		t.Errorf("children = %v, want [%d]", got, c)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestQueries(t *testing.T) {
	tr, a, b, c := fixture(t)
	reg := tr.Registry()
	root := tr.Root().ID

	fuc := reg.NewNode(Fuc)
	fuc.Anchor = c
	if err := tr.InsertChildAt(a, fuc, 1); err != nil {
		t.Fatal(err)
	}

	if d := tr.Depth(b); d != 2 {
		t.Errorf("Depth(b) = %d, want 2", d)
	}
	if d := tr.Depth(999); d != -1 {
		t.Errorf("Depth(unknown) = %d", d)
	}
	if !tr.IsAncestor(root, c) || tr.IsAncestor(c, root) || tr.IsAncestor(b, b) {
		t.Error("IsAncestor mismatch")
	}
	if got := tr.LinkTarget(fuc.ID); got != c {
		t.Errorf("LinkTarget(fuc) = %d, want %d", got, c)
	}
	if got := tr.LinkTarget(b); got != a {
		t.Errorf("LinkTarget(b) = %d, want %d", got, a)
	}
	if occ, ok := tr.DecorationOccupant(a, Above); !ok || occ.ID != fuc.ID {
		t.Errorf("DecorationOccupant(a, Above) = %v, %v", occ, ok)
	}
	if _, ok := tr.DecorationOccupant(a, Below); ok {
		t.Error("DecorationOccupant(a, Below) found an occupant")
	}
	if idx := tr.SiblingIndex(root); idx != -1 {
		t.Errorf("SiblingIndex(root) = %d", idx)
	}

	var order []NodeID
	tr.Walk(func(n *Node, _ int) bool {
		order = append(order, n.ID)
		return true
	})
	want := []NodeID{root, a, b, fuc.ID, c}
	if !slices.Equal(order, want) {
		t.Errorf("Walk order = %v, want %v", order, want)
	}

	ids := make([]NodeID, 0, tr.Len())
	for _, n := range tr.Nodes() {
		ids = append(ids, n.ID)
	}
	if !slices.IsSorted(ids) {
		t.Errorf("Nodes() not in ID order: %v", ids)
	}
}

func TestClone(t *testing.T) {
	tr, a, _, _ := fixture(t)
	cp := tr.Clone()

	if err := cp.AppendChild(a, cp.Registry().NewNode(Gal)); err != nil {
		t.Fatal(err)
	}
	if len(tr.nodeForTest(a).Children) != 2 {
		t.Error("mutating the clone changed the original")
	}
	if len(cp.nodeForTest(a).Children) != 3 {
		t.Error("clone did not take the new child")
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(tr *Tree, a, b, c NodeID)
		want    error
	}{
		{
			name:    "broken parent link",
			corrupt: func(tr *Tree, a, b, c NodeID) { tr.nodeForTest(b).Parent = c },
			want:    ErrBrokenLink,
		},
		{
			name: "double decoration",
			corrupt: func(tr *Tree, a, b, c NodeID) {
				tr.nodeForTest(b).Side = Above
				tr.nodeForTest(c).Side = Above
			},
			want: ErrSlotViolation,
		},
		{
			name:    "foreign anchor",
			corrupt: func(tr *Tree, a, b, c NodeID) { tr.nodeForTest(b).Anchor = a },
			want:    ErrDetachedAnchor,
		},
		{
			name: "cycle",
			corrupt: func(tr *Tree, a, b, c NodeID) {
				n := tr.nodeForTest(b)
				n.Children = append(n.Children, a)
			},
			want: ErrBrokenLink,
		},
		{
			name:    "bad root",
			corrupt: func(tr *Tree, a, b, c NodeID) { tr.Root().Kind = Glc },
			want:    ErrInvalidRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, a, b, c := fixture(t)
			tt.corrupt(tr, a, b, c)
			if err := tr.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewEmptyTree(t *testing.T) {
	reg := NewRegistry()
	if _, err := NewEmptyTree(reg, &Node{ID: 5, Kind: Glc}); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("non reducing-end root: err = %v", err)
	}
	tr, err := NewEmptyTree(reg, &Node{ID: 5, Kind: ReducingEnd})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
	if id := reg.Next(); id != 6 {
		t.Errorf("registry not advanced: Next() = %d", id)
	}
}
