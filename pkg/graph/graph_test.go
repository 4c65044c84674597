package graph

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/core/layout"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

// decorated builds root -> GlcNAc -> [Fuc(above Gal), Gal, Man] plus a
// Neu5Ac on Gal, without going through the planner.
func decorated(t *testing.T) *glycan.Tree {
	t.Helper()
	reg := glycan.NewRegistry()
	tr := glycan.NewTree(reg)
	first := tr.Root().Children[0]

	gal := reg.NewNode(glycan.Gal)
	man := reg.NewNode(glycan.Man)
	sia := reg.NewNode(glycan.Neu5Ac)
	fuc := reg.NewNode(glycan.Fuc)
	for _, step := range []struct {
		parent glycan.NodeID
		n      *glycan.Node
		index  int
	}{
		{first, gal, 0},
		{first, man, 1},
		{gal.ID, sia, 0},
	} {
		if err := tr.InsertChildAt(step.parent, step.n, step.index); err != nil {
			t.Fatal(err)
		}
	}
	fuc.Anchor = gal.ID
	if err := tr.InsertChildAt(first, fuc, 0); err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestRoundTrip(t *testing.T) {
	tr := decorated(t)

	data, err := MarshalGlycan(tr)
	if err != nil {
		t.Fatalf("MarshalGlycan: %v", err)
	}
	back, err := ReadGlycan(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGlycan: %v", err)
	}

	if back.Len() != tr.Len() {
		t.Fatalf("Len() = %d, want %d", back.Len(), tr.Len())
	}
	for _, want := range tr.Nodes() {
		got, ok := back.Node(want.ID)
		if !ok {
			t.Fatalf("node %d missing", want.ID)
		}
		if got.Kind != want.Kind || got.Side != want.Side || got.Anchor != want.Anchor ||
			got.Parent != want.Parent || !slices.Equal(got.Children, want.Children) {
			t.Errorf("node %d = %+v, want %+v", want.ID, got, want)
		}
	}
	if last := back.Registry().Last(); last != tr.Registry().Last() {
		t.Errorf("registry at %d, want %d", last, tr.Registry().Last())
	}
}

func TestFromTreeOrder(t *testing.T) {
	g := FromTree(decorated(t))

	var kinds []string
	for _, n := range g.Nodes {
		kinds = append(kinds, n.Kind)
	}
	want := []string{"redEnd", "GlcNAc", "Fuc", "Gal", "Neu5Ac", "Man"}
	if !slices.Equal(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
	if g.Root().Kind != "redEnd" {
		t.Errorf("Root() = %+v", g.Root())
	}
	if g.Nodes[2].Side != "above" || g.Nodes[2].Anchor != g.Nodes[3].ID {
		t.Errorf("fucose = %+v", g.Nodes[2])
	}
}

func TestKindName(t *testing.T) {
	tests := []struct {
		kind glycan.Kind
		want string
	}{
		{glycan.GlcNAc, "GlcNAc"},
		{glycan.Kind(90), "Sia"},
		{glycan.Kind(99), "99"},
		{glycan.ReducingEnd, "redEnd"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := KindName(tt.kind)
			if got != tt.want {
				t.Errorf("KindName(%d) = %q, want %q", int(tt.kind), got, tt.want)
			}
			if k, err := glycan.ParseKind(got); err != nil || k != tt.kind {
				t.Errorf("ParseKind(%q) = %v, %v", got, k, err)
			}
		})
	}
}

func TestToTreeRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", `{"nodes": []}`},
		{"root not reducing end", `{"nodes": [{"id": 1, "kind": "Gal"}]}`},
		{"unknown kind", `{"nodes": [{"id": 1, "kind": "redEnd", "children": [2]}, {"id": 2, "kind": "Foo"}]}`},
		{"unknown side", `{"nodes": [{"id": 1, "kind": "redEnd", "children": [2]}, {"id": 2, "kind": "Gal", "side": "left"}]}`},
		{"zero id", `{"nodes": [{"id": 0, "kind": "redEnd"}]}`},
		{"duplicate id", `{"nodes": [{"id": 1, "kind": "redEnd", "children": [2]}, {"id": 2, "kind": "Gal"}, {"id": 2, "kind": "Man"}]}`},
		{"missing child", `{"nodes": [{"id": 1, "kind": "redEnd", "children": [5]}]}`},
		{"unreachable", `{"nodes": [{"id": 1, "kind": "redEnd"}, {"id": 2, "kind": "Gal"}]}`},
		{"shared child", `{"nodes": [
			{"id": 1, "kind": "redEnd", "children": [2, 3]},
			{"id": 2, "kind": "Gal", "children": [4]},
			{"id": 3, "kind": "Man", "children": [4]},
			{"id": 4, "kind": "Glc"}]}`},
		{"second reducing end", `{"nodes": [{"id": 1, "kind": "redEnd", "children": [2]}, {"id": 2, "kind": "redEnd"}]}`},
		{"slot taken twice", `{"nodes": [
			{"id": 1, "kind": "redEnd", "children": [2]},
			{"id": 2, "kind": "GlcNAc", "children": [3, 4]},
			{"id": 3, "kind": "Fuc", "side": "above"},
			{"id": 4, "kind": "Xyl", "side": "above"}]}`},
		{"foreign anchor", `{"nodes": [
			{"id": 1, "kind": "redEnd", "children": [2]},
			{"id": 2, "kind": "GlcNAc", "children": [3]},
			{"id": 3, "kind": "Fuc", "side": "above", "anchor": 1}]}`},
		{"invalid json", `{invalid json}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGlycan(strings.NewReader(tt.input))
			if !errs.Is(err, errs.ErrCodeInvalidFormat) {
				t.Errorf("ReadGlycan() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestToTreeAdvancesRegistry(t *testing.T) {
	g := Glycan{Nodes: []Node{
		{ID: 10, Kind: "redEnd", Children: []int64{42}},
		{ID: 42, Kind: "GlcNAc"},
	}}
	reg := glycan.NewRegistry()
	if _, err := ToTree(g, reg); err != nil {
		t.Fatal(err)
	}
	if id := reg.Next(); id != 43 {
		t.Errorf("Next() = %d, want 43", id)
	}
}

func TestGlycanFile(t *testing.T) {
	tr := decorated(t)
	path := filepath.Join(t.TempDir(), "glycan.json")

	if err := WriteGlycanFile(tr, path); err != nil {
		t.Fatalf("WriteGlycanFile: %v", err)
	}
	back, err := ReadGlycanFile(path)
	if err != nil {
		t.Fatalf("ReadGlycanFile: %v", err)
	}
	if back.Len() != tr.Len() {
		t.Errorf("Len() = %d, want %d", back.Len(), tr.Len())
	}

	if _, err := ReadGlycanFile(filepath.Join(t.TempDir(), "nonexistent.json")); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestUnmarshalGlycan(t *testing.T) {
	g, err := UnmarshalGlycan([]byte(`{"name": "core", "nodes": [{"id": 1, "kind": "redEnd"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "core" || len(g.Nodes) != 1 {
		t.Errorf("UnmarshalGlycan() = %+v", g)
	}
	if _, err := UnmarshalGlycan([]byte(`[`)); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("UnmarshalGlycan([) = %v", err)
	}
}

func TestFromResult(t *testing.T) {
	tr := decorated(t)
	cfg := layout.DefaultConfig()
	layout.New(cfg).Apply(tr)

	l := FromResult(tr, cfg)
	if !l.IsSNFG() || l.Width != cfg.Width || l.SymbolSize != cfg.SymbolSize {
		t.Errorf("header = %+v", l)
	}
	if len(l.Nodes) != tr.Len() || len(l.Linkages) != tr.Len()-1 {
		t.Fatalf("nodes = %d, linkages = %d", len(l.Nodes), len(l.Linkages))
	}

	byID := map[int64]PositionedNode{}
	for _, n := range l.Nodes {
		byID[n.ID] = n
	}
	for _, lk := range l.Linkages {
		from := byID[lk.From]
		if from.Kind == "Fuc" && byID[lk.To].Kind != "Gal" {
			t.Errorf("fucose linked to %s, want Gal", byID[lk.To].Kind)
		}
	}
	if root := l.Nodes[0]; root.Depth != 0 || root.Color != "#FFFFFF" {
		t.Errorf("root = %+v", root)
	}
}

func TestLayoutFile(t *testing.T) {
	tr := decorated(t)
	layout.New(layout.DefaultConfig()).Apply(tr)
	l := FromResult(tr, layout.DefaultConfig())

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Nodes) != len(l.Nodes) || back.Nodes[1].Y != l.Nodes[1].Y {
		t.Errorf("round trip lost nodes: %+v", back.Nodes)
	}
}

func TestUnmarshalLayout(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		viz     string
	}{
		{"default type", `{"nodes": [{"id": 1, "kind": "redEnd"}]}`, false, VizTypeSNFG},
		{"snfg without nodes", `{"viz_type": "snfg"}`, true, ""},
		{"nodelink", `{"viz_type": "nodelink", "dot": "digraph G {}"}`, false, VizTypeNodelink},
		{"nodelink without dot", `{"viz_type": "nodelink"}`, true, ""},
		{"invalid", `{`, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := UnmarshalLayout([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && l.VizType != tt.viz {
				t.Errorf("VizType = %q, want %q", l.VizType, tt.viz)
			}
		})
	}
}

func TestWriteGlycanIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGlycan(glycan.NewTree(glycan.NewRegistry()), &buf); err != nil {
		t.Fatal(err)
	}
	var g Glycan
	if err := json.Unmarshal(buf.Bytes(), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(g.Nodes) != 2 || !strings.Contains(buf.String(), "\n  \"nodes\"") {
		t.Errorf("output = %s", buf.String())
	}
}
