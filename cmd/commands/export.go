package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idavillc/prompt-builder/internal/domain/library"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the component library and prompts as JSON",
		Long:  "Exports the full component tree and prompt collection as a JSON document. Writes to stdout unless a file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			data, err := library.Export(a.tree.Snapshot(), a.prompts.List())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if len(args) == 1 {
				return os.WriteFile(args[0], data, 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
