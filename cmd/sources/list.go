package sources

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/dircrawl/cmd/common"
	"github.com/jonesrussell/dircrawl/internal/logger"
	internalsources "github.com/jonesrussell/dircrawl/internal/sources"
)

// TableRenderer handles the display of source data in a table format.
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance.
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{logger: log}
}

// RenderTable formats and displays the sources in a table format.
func (r *TableRenderer) RenderTable(srcs []internalsources.Source) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "Enabled", "Category", "Region", "Start URLs", "Detail", "Pagination"})

	for i := range srcs {
		src := &srcs[i]
		t.AppendRow(table.Row{
			src.Name,
			src.IsEnabled(),
			src.Category,
			src.Region,
			strings.Join(src.StartURLs, "\n"),
			src.HasDetail(),
			len(src.Pagination.NextPageSelector) > 0,
		})
	}

	t.Render()
	return nil
}

// newListCommand creates the list command.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		Long:  `List every source in the sources file, enabled or not.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			manager, err := internalsources.LoadManager(sourcesFile(cmd, deps.Settings.SourcesFile))
			if err != nil {
				return fmt.Errorf("failed to load sources: %w", err)
			}

			srcs := manager.GetSources()
			if len(srcs) == 0 {
				deps.Logger.Info("No sources configured")
				return nil
			}

			return NewTableRenderer(deps.Logger).RenderTable(srcs)
		},
	}
}
