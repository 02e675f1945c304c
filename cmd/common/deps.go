// Package common provides shared dependency construction for the CLI
// commands.
package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/dircrawl/internal/config"
	"github.com/jonesrussell/dircrawl/internal/logger"
)

// Deps holds the dependencies shared by every command.
type Deps struct {
	Settings *config.Settings
	Logger   logger.Interface
}

// NewCommandDeps builds the settings from viper-managed configuration and
// creates the logger they describe.
func NewCommandDeps() (*Deps, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&settings.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Deps{
		Settings: settings,
		Logger:   log,
	}, nil
}
