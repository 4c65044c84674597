package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glycodraw/pkg/config"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/graph"
	"github.com/matzehuels/glycodraw/pkg/library"
)

// openLibrary connects to the configured structure library.
func (c *CLI) openLibrary(ctx context.Context) (library.Library, error) {
	st := c.Config.Storage
	if st.Backend == config.BackendMongo {
		return library.DialMongo(ctx, st.MongoURI, st.MongoDatabase)
	}
	return library.NewFileLibrary(libraryDir(c.Config))
}

func libraryDir(cfg config.Config) string {
	return filepath.Join(cfg.Storage.Dir, "library")
}

// libraryCommand creates the library management command.
func (c *CLI) libraryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage saved structures",
	}

	cmd.AddCommand(c.libraryListCommand())
	cmd.AddCommand(c.librarySaveCommand())
	cmd.AddCommand(c.libraryExportCommand())
	cmd.AddCommand(c.libraryRemoveCommand())

	return cmd
}

func (c *CLI) libraryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved structures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer lib.Close()

			list, err := lib.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("Library is empty")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), libraryTable(list, time.Now()))
			return nil
		},
	}
}

func (c *CLI) librarySaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [name] [glycan.json]",
		Short: "Save a document under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := graph.ReadGlycanFile(args[1])
			if err != nil {
				return fmt.Errorf("load document %s: %w", args[1], err)
			}
			lib, err := c.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer lib.Close()

			if err := lib.Save(cmd.Context(), args[0], graph.FromTree(tree)); err != nil {
				return err
			}
			printSuccess("Saved %s", StyleHighlight.Render(args[0]))
			printDetail("%d residues", tree.Len())
			return nil
		},
	}
}

func (c *CLI) libraryExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Write a saved structure to a document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer lib.Close()

			e, err := lib.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tree, err := graph.ToTree(e.Document, glycan.NewRegistry())
			if err != nil {
				return fmt.Errorf("stored document %s: %w", args[0], err)
			}
			path := output
			if path == "" {
				path = args[0] + ".json"
			}
			if err := graph.WriteGlycanFile(tree, path); err != nil {
				return err
			}
			printSuccess("Exported %s", StyleHighlight.Render(args[0]))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

func (c *CLI) libraryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [name]",
		Aliases: []string{"delete"},
		Short:   "Delete a saved structure",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer lib.Close()

			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// libraryTable renders library summaries; now anchors the relative times.
func libraryTable(list []library.Summary, now time.Time) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = []string{s.Name, fmt.Sprintf("%d", s.Nodes), formatRelativeTime(s.UpdatedAt, now)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Residues", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
