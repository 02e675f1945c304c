package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/dircrawl/cmd/common"
	internalsources "github.com/jonesrussell/dircrawl/internal/sources"
)

// newValidateCommand creates the validate command. Loading already runs
// the full validation pass, so a successful load means every source is
// well formed.
func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the sources file",
		Long: `Parses the sources file and checks every source: required fields,
field names, CSS selector syntax, and start URL schemes. Exits non-zero
on the first invalid source.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			path := sourcesFile(cmd, deps.Settings.SourcesFile)
			manager, err := internalsources.LoadManager(path)
			if err != nil {
				return fmt.Errorf("sources file %s is invalid: %w", path, err)
			}

			deps.Logger.Info("Sources file is valid",
				"path", path,
				"sources", len(manager.GetSources()),
				"enabled", len(manager.Enabled()),
			)
			return nil
		},
	}
}
