package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glycodraw/pkg/core/editor"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
)

// familyNames labels the palette rows.
var familyNames = []string{
	"Reducing end", "Hexose", "HexNAc", "Hexosamine", "Hexuronate",
	"Deoxyhexose", "DeoxyhexNAc", "Di-deoxyhexose", "Pentose", "Sialic acid",
}

// paletteCommand prints the symbol catalog.
func (c *CLI) paletteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "Show the monosaccharide palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), paletteTable(editor.Grid(), -1, -1, glycan.ReducingEnd, false))
			return nil
		},
	}
}

// paletteTable renders the grid with the cursor cell (row, col) highlighted
// and the selected kind marked. A negative row hides the cursor.
func paletteTable(grid [][]editor.Cell, row, col int, selected glycan.Kind, hasSelection bool) string {
	headers := []string{""}
	for m := range len(grid[0]) {
		headers = append(headers, strconv.Itoa(m))
	}

	rows := make([][]string, len(grid))
	for r, cells := range grid {
		rows[r] = append(rows[r], familyName(r))
		for _, cell := range cells {
			label := cell.Symbol
			if hasSelection && cell.Valid() && cell.Kind == selected {
				label = "[" + label + "]"
			}
			rows[r] = append(rows[r], label)
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(r, c int) lipgloss.Style {
			if r == -1 {
				return headerStyle
			}
			if c == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			cell := grid[r][c-1]
			style := lipgloss.NewStyle().Padding(0, 1)
			if cell.Valid() {
				style = style.Foreground(lipgloss.Color(cell.Kind.Color()))
			}
			if r == row && c-1 == col {
				style = style.Reverse(true).Bold(true)
			}
			return style
		}).
		Render()
}

func familyName(f int) string {
	if f < len(familyNames) {
		return familyNames[f]
	}
	return strconv.Itoa(f)
}
