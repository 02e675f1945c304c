// Package sources implements the command-line interface for inspecting
// and validating source configurations.
package sources

import (
	"github.com/spf13/cobra"
)

// Command returns the sources command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage source configurations",
		Long:  `List and validate the directory sources configured for crawling.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("sources", "", "path to the sources YAML file")

	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newValidateCommand())
	return cmd
}

// sourcesFile resolves the sources file path from the flag or settings.
func sourcesFile(cmd *cobra.Command, configured string) string {
	if path, _ := cmd.Flags().GetString("sources"); path != "" {
		return path
	}
	if configured != "" {
		return configured
	}
	return "sources.yml"
}
