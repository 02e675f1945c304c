package sources

import (
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// sourcesFile represents the structure of a sources YAML file.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// Loader handles loading and validating source configurations.
type Loader struct {
	configPath string
}

// NewLoader creates a new Loader instance.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load loads and validates all sources from the configuration file.
// Any schema or selector problem fails the load: configuration is
// validated up front, never silently ignored mid-crawl.
func (l *Loader) Load() ([]Source, error) {
	raw, err := l.loadRawSources()
	if err != nil {
		return nil, err
	}

	configs := make([]Source, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, src := range raw {
		cfg, convertErr := l.convertToSource(src)
		if convertErr != nil {
			return nil, fmt.Errorf("%w: source %d: %w", ErrInvalidSourceFormat, i, convertErr)
		}
		if validateErr := cfg.Validate(); validateErr != nil {
			return nil, fmt.Errorf("source %q: %w", cfg.Name, validateErr)
		}
		if _, dup := seen[cfg.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate source name %q", ErrInvalidSourceFormat, cfg.Name)
		}
		seen[cfg.Name] = struct{}{}
		configs = append(configs, cfg)
	}

	return configs, nil
}

// loadRawSources loads the raw source data from the configuration file.
func (l *Loader) loadRawSources() ([]map[string]any, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, ErrNoSources
	}

	return file.Sources, nil
}

// convertToSource converts a raw source map to a Source struct.
func (l *Loader) convertToSource(src map[string]any) (Source, error) {
	var cfg Source
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
		DecodeHook:  stringToSelectorListHook(),
	})
	if err != nil {
		return Source{}, fmt.Errorf("failed to create decoder: %w", err)
	}

	if decodeErr := decoder.Decode(src); decodeErr != nil {
		return Source{}, fmt.Errorf("failed to decode source: %w", decodeErr)
	}

	return cfg, nil
}

// stringToSelectorListHook lets a bare YAML string stand in for a
// single-element selector list. Comma-containing CSS selectors must not
// be split, so this wraps rather than tokenizes.
func stringToSelectorListHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		if to != reflect.TypeOf(SelectorList(nil)) {
			return data, nil
		}
		s, ok := data.(string)
		if !ok || s == "" {
			return SelectorList(nil), nil
		}
		return SelectorList{s}, nil
	}
}
