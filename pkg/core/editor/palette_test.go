package editor

import (
	"testing"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
)

func TestPaletteToggle(t *testing.T) {
	p := NewPalette()
	if _, ok := p.Selected(); ok {
		t.Fatal("new palette has a selection")
	}

	if !p.Select(glycan.Fuc) {
		t.Error("Select(Fuc) = false")
	}
	if k, ok := p.Selected(); !ok || k != glycan.Fuc {
		t.Errorf("Selected() = %v, %v", k, ok)
	}
	if !p.Select(glycan.Gal) {
		t.Error("switching selection returned false")
	}
	if p.Select(glycan.Gal) {
		t.Error("reselecting should clear")
	}
	if _, ok := p.Selected(); ok {
		t.Error("selection not cleared")
	}
	if p.Select(53) {
		t.Error("Select(invalid) = true")
	}
}

func TestGrid(t *testing.T) {
	g := Grid()
	if len(g) != 10 {
		t.Fatalf("rows = %d", len(g))
	}
	valid := 0
	for f, row := range g {
		if len(row) != 10 {
			t.Fatalf("row %d has %d cells", f, len(row))
		}
		for m, c := range row {
			if int(c.Kind) != f*10+m || c.Row != f || c.Col != m {
				t.Errorf("cell[%d][%d] = %+v", f, m, c)
			}
			if c.Valid() {
				valid++
			}
		}
	}
	if want := len(glycan.Kinds()); valid != want {
		t.Errorf("valid cells = %d, want %d", valid, want)
	}
	if g[2][1].Symbol != "GlcNAc" {
		t.Errorf("cell[2][1] = %q", g[2][1].Symbol)
	}
}

func TestHistoryBound(t *testing.T) {
	h := NewHistory(3)
	for i := range 5 {
		h.Push(Edit{Node: glycan.NodeID(i + 1)})
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	for _, want := range []glycan.NodeID{5, 4, 3} {
		e, ok := h.Pop()
		if !ok || e.Node != want {
			t.Errorf("Pop() = %v, %v, want %d", e, ok, want)
		}
	}
	if _, ok := h.Pop(); ok {
		t.Error("Pop() on empty history succeeded")
	}
	h.Push(Edit{Node: 9})
	h.Clear()
	if h.Len() != 0 {
		t.Error("Clear() left edits")
	}
}
