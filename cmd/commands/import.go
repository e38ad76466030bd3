package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idavillc/prompt-builder/internal/domain/id"
	"github.com/idavillc/prompt-builder/internal/domain/library"
	"github.com/idavillc/prompt-builder/internal/domain/prompt"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a library document into the database",
		Long:  "Imports a previously exported JSON document. By default folders are merged by name and prompts appended; --replace swaps the stored library wholesale.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			doc, err := library.Parse(data, id.New)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			if replace {
				a.tree.ReplaceTree(doc.Tree)
				a.prompts.ReplaceAll(doc.Prompts)
			} else {
				remap := a.tree.MergeLibrary(doc)
				a.prompts.Append(prompt.RemapLinks(doc.Prompts, remap))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d prompt(s) from %s\n", len(doc.Prompts), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace the existing library instead of merging")
	return cmd
}
