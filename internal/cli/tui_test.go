package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/glycodraw/pkg/core/editor"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
)

func newTestEditor(t *testing.T) *EditorModel {
	t.Helper()
	c := New(&bytes.Buffer{}, LogInfo)
	return c.newEditorModel(context.Background(), glycan.NewTree(glycan.NewRegistry()), "glycan.json")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *EditorModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestEditorStartsOnFirstResidue(t *testing.T) {
	m := newTestEditor(t)
	if got := m.current(); got != 2 {
		t.Errorf("cursor on node %d, want 2", got)
	}
}

func TestEditorClickAndUndo(t *testing.T) {
	m := newTestEditor(t)

	press(m, "c")
	if n := m.ctrl.Tree().Len(); n != 3 {
		t.Fatalf("Len() = %d after click, want 3", n)
	}
	if !m.dirty || m.failed || !strings.Contains(m.status, "added GlcNAc") {
		t.Errorf("status = %q, dirty = %v", m.status, m.dirty)
	}
	if m.current() != 3 {
		t.Errorf("cursor on %d, want the new node 3", m.current())
	}

	press(m, "u")
	if n := m.ctrl.Tree().Len(); n != 2 {
		t.Errorf("Len() = %d after undo, want 2", n)
	}
	press(m, "u")
	if !m.failed {
		t.Errorf("second undo status = %q", m.status)
	}
}

func TestEditorDrag(t *testing.T) {
	m := newTestEditor(t)

	press(m, "d")
	if m.ctrl.State() != editor.Dragging {
		t.Fatalf("state = %v, want dragging", m.ctrl.State())
	}
	if !strings.Contains(m.View(), helpDragging) {
		t.Error("view does not show drag help")
	}
	press(m, "enter")
	if m.ctrl.State() != editor.Idle || m.ctrl.Tree().Len() != 3 {
		t.Errorf("after drop: state = %v, Len() = %d; status %q", m.ctrl.State(), m.ctrl.Tree().Len(), m.status)
	}
}

func TestEditorDragCancel(t *testing.T) {
	m := newTestEditor(t)

	press(m, "d", "J", "esc")
	if m.ctrl.State() != editor.Idle || m.ctrl.Tree().Len() != 2 {
		t.Errorf("after cancel: state = %v, Len() = %d", m.ctrl.State(), m.ctrl.Tree().Len())
	}
	if _, ok := m.ctrl.Ghost(); ok {
		t.Error("ghost survived cancel")
	}
}

func TestEditorPalette(t *testing.T) {
	m := newTestEditor(t)

	press(m, "tab", "right", "right", "right", "enter")
	if k, ok := m.ctrl.Palette().Selected(); !ok || k != glycan.Gal {
		t.Fatalf("Selected() = %v, %v; want Gal", k, ok)
	}
	if !strings.Contains(m.View(), "[Gal]") {
		t.Error("palette table does not mark the selection")
	}

	press(m, "tab", "c")
	n, ok := m.ctrl.Tree().Node(3)
	if !ok || n.Kind != glycan.Gal {
		t.Errorf("clicked node = %+v, want Gal", n)
	}
}

func TestEditorRemoveRoot(t *testing.T) {
	m := newTestEditor(t)
	press(m, "up", "x")
	if !m.failed || m.ctrl.Tree().Len() != 2 {
		t.Errorf("removing the root: status %q, Len() = %d", m.status, m.ctrl.Tree().Len())
	}
}

func TestEditorQuitAndSave(t *testing.T) {
	m := newTestEditor(t)
	var saved string
	m.save = func(_ *glycan.Tree, path string) error {
		saved = path
		return nil
	}

	press(m, "c")
	if cmd := press(m, "q"); cmd != nil {
		t.Fatal("quit with unsaved changes should ask first")
	}
	press(m, "s")
	if saved != "glycan.json" || m.dirty {
		t.Errorf("saved = %q, dirty = %v", saved, m.dirty)
	}
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q after save should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestTermSurfaceDraw(t *testing.T) {
	s := newTermSurface(100, 100)
	root := s.RenderNode(&glycan.Node{ID: 1, Kind: glycan.ReducingEnd, X: 100, Y: 50})
	leaf := s.RenderNode(&glycan.Node{ID: 2, Kind: glycan.GlcNAc, X: 0, Y: 50})
	s.RenderLinkage(leaf, root)

	out := s.Draw(11, 5, glycan.NoNode, glycan.NoNode)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("Draw() has %d lines, want 5", len(lines))
	}
	mid := lines[2]
	if !strings.Contains(mid, "○") || !strings.Contains(mid, "■") || !strings.Contains(mid, "·") {
		t.Errorf("middle row = %q", mid)
	}

	s.RemoveNode(root)
	if out := s.Draw(11, 5, glycan.NoNode, glycan.NoNode); strings.Contains(out, "·") {
		t.Error("linkage survived RemoveNode")
	}
}
