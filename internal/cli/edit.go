package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glycodraw/pkg/core/editor"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

// editCommand opens a document in the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a glycan document in the terminal",
		Long: `Edit a glycan document in the terminal.

A missing file starts from the empty document and is created on save. Select
a node with the arrow keys and press c to append a copy of it, or d to drag
it onto another node. Tab switches to the palette, where enter selects the
kind that later clicks and drags create.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultDocument
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(cmd.Context(), path)
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, path string) error {
	tree, err := loadOrEmpty(path)
	if err != nil {
		return err
	}

	m := c.newEditorModel(ctx, tree, path)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*EditorModel); ok && fm.dirty {
		printWarning("Quit without saving %s", path)
	}
	return nil
}

func (c *CLI) newEditorModel(ctx context.Context, tree *glycan.Tree, path string) *EditorModel {
	cfg := c.Config.Layout()
	surface := newTermSurface(cfg.Width, cfg.Height)
	ctrl := editor.New(tree, surface, editor.WithLayout(cfg))
	return newEditor(ctx, ctrl, surface, path)
}

// loadOrEmpty reads path, or returns the empty document when it does not
// exist yet.
func loadOrEmpty(path string) (*glycan.Tree, error) {
	tree, err := graph.ReadGlycanFile(path)
	if err == nil {
		return tree, nil
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		return glycan.NewTree(glycan.NewRegistry()), nil
	}
	return nil, fmt.Errorf("load document %s: %w", path, err)
}
