// Package commands implements the promptbuilder CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/idavillc/prompt-builder/internal/config"
)

// Version is set during build with -ldflags.
var Version = "dev"

var configFile string

// NewRootCommand creates the promptbuilder root command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "promptbuilder",
		Short:        "Backend for building LLM prompts from a reusable component library",
		Version:      Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", config.DefaultConfigFile, "path to the YAML config file")

	root.AddCommand(
		NewServeCommand(),
		NewExportCommand(),
		NewImportCommand(),
		NewCompileCommand(),
	)
	return root
}
