// Package cmd implements the command-line interface for dircrawl.
// It provides the root command and subcommands for running crawls and
// managing source configurations.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/dircrawl/cmd/crawl"
	cmdgolden "github.com/jonesrussell/dircrawl/cmd/golden"
	cmdsources "github.com/jonesrussell/dircrawl/cmd/sources"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug logging for all commands.
	Debug bool

	// rootCmd represents the root command for the dircrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "dircrawl",
		Short: "A contact crawler for directory websites",
		Long: `Crawls configured directory websites, extracts business contact
records with per-source CSS selectors, and writes them to CSV.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get the config path before viper reads it
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("dircrawl version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(cmdsources.Command())
	rootCmd.AddCommand(cmdgolden.Command())
}

// initConfig reads the config file and environment variables into viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional; defaults and environment variables cover
	// every setting.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: config file not loaded: %v\n", err)
		}
	}

	if err := bindCommandLineFlags(); err != nil {
		return err
	}
	if err := bindEnvVars(); err != nil {
		return err
	}

	if Debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
	}
	return nil
}

// bindCommandLineFlags binds command-line flags to viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}

// bindEnvVars maps environment variables to config keys.
func bindEnvVars() error {
	binds := map[string][]string{
		"app.debug":                {"APP_DEBUG"},
		"logger.level":             {"LOG_LEVEL"},
		"logger.encoding":          {"LOG_FORMAT"},
		"crawl.max_runtime":        {"CRAWL_MAX_RUNTIME"},
		"crawl.max_items":          {"CRAWL_MAX_ITEMS"},
		"crawl.parallelism":        {"CRAWL_PARALLELISM"},
		"crawl.delay":              {"CRAWL_DELAY"},
		"crawl.request_timeout":    {"CRAWL_REQUEST_TIMEOUT"},
		"crawl.respect_robots_txt": {"CRAWL_RESPECT_ROBOTS_TXT"},
		"crawl.sources_file":       {"CRAWL_SOURCES_FILE"},
		"crawl.output_path":        {"CRAWL_OUTPUT_PATH"},
		"crawl.user_agent":         {"CRAWL_USER_AGENT"},
	}
	for key, envs := range binds {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}
