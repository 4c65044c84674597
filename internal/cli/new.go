package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

// newCommand creates the new command, which writes the empty document: a
// reducing end carrying one GlcNAc.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create an empty glycan document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultDocument
			if len(args) == 1 {
				path = args[0]
			}
			if err := writeEmpty(path, force); err != nil {
				return err
			}
			printSuccess("Created document")
			printFile(path)
			printNewline()
			printNextStep("Edit", appName+" edit "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func writeEmpty(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return graph.WriteGlycanFile(glycan.NewTree(glycan.NewRegistry()), path)
}
