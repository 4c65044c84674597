package editor

import "github.com/matzehuels/glycodraw/pkg/core/glycan"

// Palette tracks the monosaccharide selected in the symbol toolbar. While a
// kind is selected, drags and clicks create nodes of that kind instead of
// copying the node they start from.
type Palette struct {
	selected glycan.Kind
	active   bool
}

// NewPalette returns a palette with nothing selected.
func NewPalette() *Palette { return &Palette{} }

// Select toggles k: selecting the selected kind clears the selection.
// It reports whether k is selected afterwards. Unknown kinds are ignored.
func (p *Palette) Select(k glycan.Kind) bool {
	if !k.Valid() {
		return false
	}
	if p.active && p.selected == k {
		p.Clear()
		return false
	}
	p.selected, p.active = k, true
	return true
}

// Selected returns the selected kind.
func (p *Palette) Selected() (glycan.Kind, bool) { return p.selected, p.active }

// Clear drops the selection.
func (p *Palette) Clear() { p.selected, p.active = glycan.ReducingEnd, false }

// Cell is one button of the palette grid.
type Cell struct {
	Kind   glycan.Kind
	Symbol string // empty for gaps in the catalog
	Row    int    // family
	Col    int    // member
}

// Valid reports whether the cell holds a selectable kind.
func (c Cell) Valid() bool { return c.Symbol != "" }

// Grid returns the 10x10 palette: one row per family, one column per member.
func Grid() [][]Cell {
	rows := make([][]Cell, glycan.FamilyCount)
	for f := range glycan.FamilyCount {
		rows[f] = make([]Cell, 10)
		for m := range 10 {
			k := glycan.Kind(f*10 + m)
			c := Cell{Kind: k, Row: f, Col: m}
			if k.Valid() {
				c.Symbol = k.Symbol()
			}
			rows[f][m] = c
		}
	}
	return rows
}
