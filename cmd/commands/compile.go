package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "compile <prompt>",
		Short: "Render a prompt to its final text",
		Long:  "Renders a prompt, by id or name, to the text that would be pasted into an AI tool, using the current app settings.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			promptID := resolvePromptID(a, args[0])
			text, ok := a.prompts.Compiled(promptID)
			if !ok {
				return fmt.Errorf("prompt %q not found", args[0])
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(text); err != nil {
					return fmt.Errorf("clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Copied to clipboard.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the compiled text to the clipboard")
	return cmd
}

// resolvePromptID accepts a prompt id or an exact name.
func resolvePromptID(a *app, ref string) string {
	if _, ok := a.prompts.Get(ref); ok {
		return ref
	}
	for _, p := range a.prompts.List() {
		if p.Name == ref {
			return p.ID
		}
	}
	return ref
}
