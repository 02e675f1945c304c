// Package golden implements the golden command that merges feed CSVs
// into a deduplicated golden file.
package golden

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/dircrawl/cmd/common"
	"github.com/jonesrussell/dircrawl/internal/config"
	"github.com/jonesrussell/dircrawl/internal/output"
)

// Command returns the golden command for use in the root command.
func Command() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "golden",
		Short: "Merge feed CSVs into a deduplicated golden file",
		Long: `Reads every providers-*.csv feed in the output directory, oldest first,
deduplicates rows by normalized phone number with newer feeds winning,
and writes the result to ` + output.GoldenFileName + `.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			merger := output.NewGoldenMerger(deps.Logger)
			path, rows, err := merger.Merge(dir)
			if err != nil {
				return fmt.Errorf("failed to merge feeds: %w", err)
			}

			deps.Logger.Info("Golden file written", "path", path, "rows", rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", config.DefaultOutputDir, "directory containing feed CSVs")
	return cmd
}
