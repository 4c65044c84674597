package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/glycodraw/pkg/core/editor"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

type focus int

const (
	focusTree focus = iota
	focusPalette
)

var (
	statusOK   = lipgloss.NewStyle().Foreground(colorGreen)
	statusErr  = lipgloss.NewStyle().Foreground(colorRed)
	statusDim  = lipgloss.NewStyle().Foreground(colorDim)
	canvasBox  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	helpByMode = map[focus]string{
		focusTree:    "↑/↓ node  c append  d drag  x remove  u undo  tab palette  s save  q quit",
		focusPalette: "arrows move  ⏎ select  d drag from palette  tab tree  s save  q quit",
	}
	helpDragging = "↑/↓ target  K/J nudge up/down  ⏎ drop  esc cancel"
)

// EditorModel is the bubbletea model of the terminal editor. Key presses are
// translated into controller events; the controller draws on a termSurface.
type EditorModel struct {
	ctrl    *editor.Controller
	surface *termSurface
	ctx     context.Context
	path    string
	save    func(*glycan.Tree, string) error

	focus    focus
	order    []glycan.NodeID // walk order of the tree
	cursor   int             // index into order
	row, col int             // palette cursor
	nudge    float64         // vertical step while dragging

	status string
	failed bool
	dirty  bool
	quit   bool // a quit was requested with unsaved changes

	width, height int
}

// newEditor edits the document at path through ctrl.
func newEditor(ctx context.Context, ctrl *editor.Controller, surface *termSurface, path string) *EditorModel {
	m := &EditorModel{
		ctrl:    ctrl,
		surface: surface,
		ctx:     ctx,
		path:    path,
		save:    graph.WriteGlycanFile,
		nudge:   ctrl.Engine().Config().SymbolSize / 2,
		width:   80,
		height:  24,
		row:     1,
	}
	m.refresh()
	if len(m.order) > 1 {
		m.cursor = 1
	}
	return m
}

func (m *EditorModel) Init() tea.Cmd { return nil }

// refresh recomputes the walk order and keeps the cursor on a valid node.
func (m *EditorModel) refresh() {
	m.order = m.order[:0]
	m.ctrl.Tree().Walk(func(n *glycan.Node, _ int) bool {
		m.order = append(m.order, n.ID)
		return true
	})
	m.cursor = min(max(m.cursor, 0), len(m.order)-1)
}

func (m *EditorModel) current() glycan.NodeID { return m.order[m.cursor] }

func (m *EditorModel) selectNode(id glycan.NodeID) {
	for i, o := range m.order {
		if o == id {
			m.cursor = i
			return
		}
	}
}

func (m *EditorModel) setStatus(failed bool, format string, args ...any) {
	m.status, m.failed = fmt.Sprintf(format, args...), failed
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if m.ctrl.State() == editor.Dragging {
			return m, m.updateDragging(msg)
		}
		return m, m.updateIdle(msg)
	}
	return m, nil
}

func (m *EditorModel) updateIdle(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key != "q" {
		m.quit = false
	}
	switch key {
	case "ctrl+c":
		return tea.Quit
	case "q":
		if m.dirty && !m.quit {
			m.quit = true
			m.setStatus(true, "unsaved changes: press q again to quit, s to save")
			return nil
		}
		return tea.Quit
	case "tab":
		if m.focus == focusTree {
			m.focus = focusPalette
		} else {
			m.focus = focusTree
		}
	case "up", "k":
		if m.focus == focusTree {
			m.cursor = max(m.cursor-1, 0)
		} else {
			m.row = max(m.row-1, 0)
		}
	case "down", "j":
		if m.focus == focusTree {
			m.cursor = min(m.cursor+1, len(m.order)-1)
		} else {
			m.row = min(m.row+1, glycan.FamilyCount-1)
		}
	case "left", "h":
		if m.focus == focusPalette {
			m.col = max(m.col-1, 0)
		}
	case "right", "l":
		if m.focus == focusPalette {
			m.col = min(m.col+1, 9)
		}
	case "enter", " ":
		if m.focus == focusPalette {
			m.togglePalette()
		}
	case "c":
		m.apply(m.ctrl.Click(m.current()))
	case "d":
		m.startDrag()
	case "x":
		id := m.current()
		if m.ctrl.Remove(id) {
			m.dirty = true
			m.refresh()
			m.setStatus(false, "removed node %d", id)
		} else {
			m.setStatus(true, "node %d cannot be removed", id)
		}
	case "u":
		if m.ctrl.Undo() {
			m.dirty = true
			m.refresh()
			m.setStatus(false, "undone")
		} else {
			m.setStatus(true, "nothing to undo")
		}
	case "s":
		m.write()
	}
	return nil
}

func (m *EditorModel) updateDragging(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		m.ctrl.Cancel()
		return tea.Quit
	case "esc":
		m.ctrl.Cancel()
		m.setStatus(true, "drag cancelled")
	case "up", "k":
		m.retarget(max(m.cursor-1, 0))
	case "down", "j":
		m.retarget(min(m.cursor+1, len(m.order)-1))
	case "K":
		m.move(0, -m.nudge)
	case "J":
		m.move(0, m.nudge)
	case "enter", " ":
		m.apply(m.ctrl.DragEnd(m.current()))
	}
	return nil
}

func (m *EditorModel) togglePalette() {
	cell := editor.Grid()[m.row][m.col]
	if !cell.Valid() {
		m.setStatus(true, "empty palette cell")
		return
	}
	if m.ctrl.Palette().Select(cell.Kind) {
		m.setStatus(false, "selected %s", cell.Symbol)
	} else {
		m.setStatus(false, "selection cleared")
	}
}

// startDrag begins a gesture from the palette cell under the cursor or from
// the current node. The ghost is then moved onto the current node.
func (m *EditorModel) startDrag() {
	src := editor.Source{Anchor: m.current()}
	if m.focus == focusPalette {
		cell := editor.Grid()[m.row][m.col]
		if !cell.Valid() {
			m.setStatus(true, "empty palette cell")
			return
		}
		src = editor.Source{Kind: cell.Kind}
	}
	if err := m.ctrl.DragStart(m.ctx, src); err != nil {
		m.setStatus(true, "%s", errs.UserMessage(err))
		return
	}
	m.focus = focusTree
	m.retarget(m.cursor)
	m.setStatus(false, "dragging")
}

// retarget moves the cursor to order[i] and the ghost onto that node.
func (m *EditorModel) retarget(i int) {
	m.cursor = i
	ghost, ok := m.ctrl.Ghost()
	if !ok {
		return
	}
	target, ok := m.ctrl.Tree().Node(m.current())
	if !ok {
		return
	}
	m.move(target.X-ghost.X, target.Y-ghost.Y)
}

func (m *EditorModel) move(dx, dy float64) {
	if err := m.ctrl.DragMove(dx, dy); err != nil {
		m.setStatus(true, "%v", err)
	}
}

// apply reports a gesture outcome.
func (m *EditorModel) apply(o editor.Outcome) {
	if !o.Committed {
		reason := "discarded"
		if o.Reason != nil {
			reason = errs.UserMessage(o.Reason)
		}
		m.setStatus(true, "%s", reason)
		return
	}
	m.dirty = true
	m.refresh()
	m.selectNode(o.Node)
	n, _ := m.ctrl.Tree().Node(o.Node)
	where := "child"
	if side := o.Placement.Side.String(); side != "" {
		where = side
	}
	m.setStatus(false, "added %s as %s of %d", n.Kind, where, o.Placement.Parent)
}

func (m *EditorModel) write() {
	if err := m.save(m.ctrl.Tree(), m.path); err != nil {
		m.setStatus(true, "save failed: %v", err)
		return
	}
	m.dirty = false
	m.setStatus(false, "saved %s", m.path)
}

func (m *EditorModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render(appName) + " " + StyleDim.Render(m.path)
	if m.dirty {
		title += StyleWarning.Render(" *")
	}
	b.WriteString(title + "\n")

	cols := max(m.width-4, 20)
	rows := max(m.height-22, 8)
	ghost := glycan.NoNode
	if g, ok := m.ctrl.Ghost(); ok {
		ghost = g.ID
	}
	b.WriteString(canvasBox.Render(m.surface.Draw(cols, rows, m.current(), ghost)) + "\n")

	n, _ := m.ctrl.Tree().Node(m.current())
	info := fmt.Sprintf("node %d %s", n.ID, n.Kind)
	if n.Side != glycan.None {
		info += fmt.Sprintf(" (%s %d)", n.Side, m.ctrl.Tree().LinkTarget(n.ID))
	}
	if k, ok := m.ctrl.Palette().Selected(); ok {
		info += "  palette: " + k.Symbol()
	}
	b.WriteString(StyleValue.Render(info) + "\n")

	if m.focus == focusPalette {
		sel, has := m.ctrl.Palette().Selected()
		b.WriteString(paletteTable(editor.Grid(), m.row, m.col, sel, has) + "\n")
	}

	if m.status != "" {
		style := statusOK
		if m.failed {
			style = statusErr
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	help := helpByMode[m.focus]
	if m.ctrl.State() == editor.Dragging {
		help = helpDragging
	}
	b.WriteString(statusDim.Render(help))
	return b.String()
}
