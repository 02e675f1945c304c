package sources

import (
	"fmt"
)

// Interface defines the contract for accessing loaded sources.
type Interface interface {
	// GetSources returns all configured sources.
	GetSources() []Source
	// FindByName returns the source with the given name.
	FindByName(name string) (*Source, error)
	// Enabled returns the sources that should be crawled, in config order.
	Enabled() []Source
}

// Manager holds the loaded source configurations.
type Manager struct {
	sources []Source
}

var _ Interface = (*Manager)(nil)

// NewManager creates a manager over already-validated sources.
func NewManager(srcs []Source) *Manager {
	return &Manager{sources: srcs}
}

// LoadManager loads sources from the given file and wraps them in a manager.
func LoadManager(configPath string) (*Manager, error) {
	loader := NewLoader(configPath)
	srcs, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return NewManager(srcs), nil
}

// GetSources returns all configured sources.
func (m *Manager) GetSources() []Source {
	return m.sources
}

// FindByName returns the source with the given name.
func (m *Manager) FindByName(name string) (*Source, error) {
	for i := range m.sources {
		if m.sources[i].Name == name {
			return &m.sources[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSourceNotFound, name)
}

// Enabled returns the sources that should be crawled, in config order.
func (m *Manager) Enabled() []Source {
	enabled := make([]Source, 0, len(m.sources))
	for _, s := range m.sources {
		if s.IsEnabled() {
			enabled = append(enabled, s)
		}
	}
	return enabled
}
