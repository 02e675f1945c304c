// Package crawl implements the crawl command that runs the configured
// sources and writes contact records to CSV.
package crawl

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/dircrawl/cmd/common"
	"github.com/jonesrussell/dircrawl/internal/config"
	"github.com/jonesrussell/dircrawl/internal/crawler"
	"github.com/jonesrussell/dircrawl/internal/logger"
	"github.com/jonesrussell/dircrawl/internal/output"
	"github.com/jonesrussell/dircrawl/internal/sources"
)

// DefaultSourcesFile is used when neither config nor flags name one.
const DefaultSourcesFile = "sources.yml"

// flags holds the crawl command's flag values.
type flags struct {
	sourcesFile string
	csvPath     string
	timeout     time.Duration
	maxItems    int
	concurrent  int
	delay       time.Duration
}

// Command returns the crawl command for use in the root command.
func Command() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the configured sources and write contact records to CSV",
		Long: `Crawls every enabled source in the sources file: fetches listing pages,
extracts contact fields with the source's CSS selectors, follows detail
pages and pagination, and appends finalized records to a CSV file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			settings := deps.Settings.Apply(overrides(cmd, &f))
			return runCrawl(cmd, deps.Logger, settings)
		},
	}

	cmd.Flags().StringVar(&f.sourcesFile, "sources", "", "path to the sources YAML file")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "CSV output path (default output/providers-<timestamp>.csv)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "maximum crawl runtime (0 stops after the first page)")
	cmd.Flags().IntVar(&f.maxItems, "max-items", 0, "stop after this many records (0 means no cap)")
	cmd.Flags().IntVar(&f.concurrent, "concurrent", 0, "concurrent detail fetches per source")
	cmd.Flags().DurationVar(&f.delay, "delay", 0, "politeness delay between requests")

	return cmd
}

// overrides converts changed flags into settings overrides. Unchanged
// flags leave the config-file values in force.
func overrides(cmd *cobra.Command, f *flags) *config.Overrides {
	o := &config.Overrides{}
	if cmd.Flags().Changed("sources") {
		o.SourcesFile = &f.sourcesFile
	}
	if cmd.Flags().Changed("csv") {
		o.OutputPath = &f.csvPath
	}
	if cmd.Flags().Changed("timeout") {
		o.MaxRuntime = &f.timeout
	}
	if cmd.Flags().Changed("max-items") {
		o.MaxItems = &f.maxItems
	}
	if cmd.Flags().Changed("concurrent") {
		o.Parallelism = &f.concurrent
	}
	if cmd.Flags().Changed("delay") {
		o.Delay = &f.delay
	}
	return o
}

// runCrawl wires the source manager, crawler, and CSV sink, then runs
// the crawl until completion or interrupt.
func runCrawl(cmd *cobra.Command, log logger.Interface, settings *config.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sourcesFile := settings.SourcesFile
	if sourcesFile == "" {
		sourcesFile = DefaultSourcesFile
	}
	manager, err := sources.LoadManager(sourcesFile)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	outputPath := settings.OutputPath
	if outputPath == "" {
		outputPath = defaultOutputPath()
	}
	sink, err := output.NewCSVSink(outputPath)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil {
			log.Error("Failed to close output file", "path", outputPath, "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := crawler.New(log, settings, manager, sink)
	log.Info("Writing records", "path", outputPath)
	if err := c.Run(ctx); err != nil {
		// Source failures do not invalidate records already written.
		log.Error("Crawl finished with source errors", "error", err)
		return err
	}
	return nil
}

// defaultOutputPath names a fresh timestamped feed file so repeated runs
// never clobber each other and golden merge can order them.
func defaultOutputPath() string {
	name := fmt.Sprintf("providers-%s.csv", time.Now().Format("20060102-150405"))
	return filepath.Join(config.DefaultOutputDir, name)
}
