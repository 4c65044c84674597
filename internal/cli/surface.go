package cli

import (
	"cmp"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/core/scene"
)

// familyGlyphs approximates the SNFG shape of each family in one cell.
var familyGlyphs = []string{"○", "●", "■", "◩", "◆", "▲", "◭", "▬", "★", "◆"}

func glyph(k glycan.Kind) string {
	if f := int(k.Family()); f < len(familyGlyphs) {
		return familyGlyphs[f]
	}
	return "?"
}

type termSymbol struct {
	id   glycan.NodeID
	kind glycan.Kind
	x, y float64
}

// termSurface is a [scene.Surface] that rasterizes the drawing onto a
// character grid. Canvas pixels are mapped onto cells when drawn.
type termSurface struct {
	width, height float64 // canvas size in pixels

	next    scene.Handle
	symbols map[scene.Handle]*termSymbol
	links   map[scene.Handle]scene.Handle
}

var _ scene.Surface = (*termSurface)(nil)

func newTermSurface(width, height float64) *termSurface {
	return &termSurface{
		width:   width,
		height:  height,
		symbols: make(map[scene.Handle]*termSymbol),
		links:   make(map[scene.Handle]scene.Handle),
	}
}

func (s *termSurface) RenderNode(n *glycan.Node) scene.Handle {
	s.next++
	s.symbols[s.next] = &termSymbol{id: n.ID, kind: n.Kind, x: n.X, y: n.Y}
	return s.next
}

func (s *termSurface) UpdateNodePosition(h scene.Handle, x, y float64) {
	if sym, ok := s.symbols[h]; ok {
		sym.x, sym.y = x, y
	}
}

func (s *termSurface) RemoveNode(h scene.Handle) {
	delete(s.symbols, h)
	delete(s.links, h)
	for child, parent := range s.links {
		if parent == h {
			delete(s.links, child)
		}
	}
}

func (s *termSurface) RenderLinkage(child, parent scene.Handle) {
	s.links[child] = parent
}

// cell maps a canvas position onto a grid of cols x rows.
func (s *termSurface) cell(x, y float64, cols, rows int) (int, int) {
	c := int(math.Round(x / s.width * float64(cols-1)))
	r := int(math.Round(y / s.height * float64(rows-1)))
	return min(max(c, 0), cols-1), min(max(r, 0), rows-1)
}

// Draw renders the surface into cols x rows cells. The symbol of highlight
// is shown reversed; ghost marks the node being dragged.
func (s *termSurface) Draw(cols, rows int, highlight, ghost glycan.NodeID) string {
	if cols < 2 || rows < 2 {
		return ""
	}
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = slices.Repeat([]string{" "}, cols)
	}

	dot := StyleDim.Render("·")
	for _, child := range slices.Sorted(maps.Keys(s.links)) {
		from, ok1 := s.symbols[child]
		to, ok2 := s.symbols[s.links[child]]
		if !ok1 || !ok2 {
			continue
		}
		c0, r0 := s.cell(from.x, from.y, cols, rows)
		c1, r1 := s.cell(to.x, to.y, cols, rows)
		steps := max(abs(c1-c0), abs(r1-r0))
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			c := c0 + int(math.Round(t*float64(c1-c0)))
			r := r0 + int(math.Round(t*float64(r1-r0)))
			grid[r][c] = dot
		}
	}

	hs := slices.Collect(maps.Keys(s.symbols))
	slices.SortFunc(hs, func(a, b scene.Handle) int {
		return cmp.Compare(s.symbols[a].id, s.symbols[b].id)
	})
	for _, h := range hs {
		sym := s.symbols[h]
		c, r := s.cell(sym.x, sym.y, cols, rows)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(sym.kind.Color()))
		switch sym.id {
		case ghost:
			style = style.Blink(true).Bold(true)
		case highlight:
			style = style.Reverse(true)
		}
		grid[r][c] = style.Render(glyph(sym.kind))
	}

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
