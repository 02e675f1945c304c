// Package config provides configuration management for the crawl engine.
// It handles loading, validation, and access to runtime settings such as
// crawl duration, item caps, concurrency, and request pacing.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/dircrawl/internal/logger"
)

// Default configuration values
const (
	DefaultMaxRuntime     = 300 * time.Second
	DefaultMaxItems       = 0 // no cap
	DefaultParallelism    = 8
	DefaultDelay          = 500 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
	DefaultUserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	DefaultOutputDir      = "output"
)

// Settings represents the runtime crawl settings. A Settings value is
// composed once at run start (defaults, then config file, then caller
// overrides) and never mutated during a run.
type Settings struct {
	// MaxRuntime bounds the total crawl duration. Zero stops after the
	// run's first fetch attempt.
	MaxRuntime time.Duration `yaml:"max_runtime"`
	// MaxItems caps the number of records emitted across the run (0 = no cap).
	MaxItems int `yaml:"max_items"`
	// Parallelism is the number of concurrent in-flight fetches per source.
	Parallelism int `yaml:"parallelism"`
	// Delay is the politeness delay between requests to the same source.
	Delay time.Duration `yaml:"delay"`
	// RequestTimeout is the timeout for each fetch.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// UserAgent is the user agent to use for requests.
	UserAgent string `yaml:"user_agent"`
	// RespectRobotsTxt indicates whether to respect robots.txt.
	RespectRobotsTxt bool `yaml:"respect_robots_txt"`
	// SourcesFile is the path to the YAML sources configuration.
	SourcesFile string `yaml:"sources_file"`
	// OutputPath is the CSV output file path.
	OutputPath string `yaml:"output_path"`
	// Logger holds the logging configuration.
	Logger logger.Config `yaml:"logger"`
}

// Overrides holds caller-supplied values that take precedence over the
// base settings. Nil fields leave the base value untouched.
type Overrides struct {
	MaxRuntime  *time.Duration
	MaxItems    *int
	Parallelism *int
	Delay       *time.Duration
	UserAgent   *string
	SourcesFile *string
	OutputPath  *string
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		MaxRuntime:       DefaultMaxRuntime,
		MaxItems:         DefaultMaxItems,
		Parallelism:      DefaultParallelism,
		Delay:            DefaultDelay,
		RequestTimeout:   DefaultRequestTimeout,
		UserAgent:        DefaultUserAgent,
		RespectRobotsTxt: true,
		OutputPath:       "",
		Logger: logger.Config{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load builds settings from defaults layered with viper-managed values.
func Load(v *viper.Viper) (*Settings, error) {
	s := Default()
	if v.IsSet("crawl.max_runtime") {
		s.MaxRuntime = v.GetDuration("crawl.max_runtime")
	}
	if v.IsSet("crawl.max_items") {
		s.MaxItems = v.GetInt("crawl.max_items")
	}
	if v.IsSet("crawl.parallelism") {
		s.Parallelism = v.GetInt("crawl.parallelism")
	}
	if v.IsSet("crawl.delay") {
		s.Delay = v.GetDuration("crawl.delay")
	}
	if v.IsSet("crawl.request_timeout") {
		s.RequestTimeout = v.GetDuration("crawl.request_timeout")
	}
	if v.IsSet("crawl.user_agent") {
		s.UserAgent = v.GetString("crawl.user_agent")
	}
	if v.IsSet("crawl.respect_robots_txt") {
		s.RespectRobotsTxt = v.GetBool("crawl.respect_robots_txt")
	}
	if v.IsSet("crawl.sources_file") {
		s.SourcesFile = v.GetString("crawl.sources_file")
	}
	if v.IsSet("crawl.output_path") {
		s.OutputPath = v.GetString("crawl.output_path")
	}
	if v.IsSet("logger.level") {
		s.Logger.Level = v.GetString("logger.level")
	}
	if v.IsSet("logger.encoding") {
		s.Logger.Encoding = v.GetString("logger.encoding")
	}
	if v.IsSet("logger.development") {
		s.Logger.Development = v.GetBool("logger.development")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply merges caller overrides into a copy of the settings and returns it.
// The receiver is left unchanged.
func (s *Settings) Apply(o *Overrides) *Settings {
	merged := *s
	if o == nil {
		return &merged
	}
	if o.MaxRuntime != nil {
		merged.MaxRuntime = *o.MaxRuntime
	}
	if o.MaxItems != nil {
		merged.MaxItems = *o.MaxItems
	}
	if o.Parallelism != nil {
		merged.Parallelism = *o.Parallelism
	}
	if o.Delay != nil {
		merged.Delay = *o.Delay
	}
	if o.UserAgent != nil {
		merged.UserAgent = *o.UserAgent
	}
	if o.SourcesFile != nil {
		merged.SourcesFile = *o.SourcesFile
	}
	if o.OutputPath != nil {
		merged.OutputPath = *o.OutputPath
	}
	return &merged
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	if s.MaxRuntime < 0 {
		return errors.New("max_runtime must be non-negative")
	}
	if s.MaxItems < 0 {
		return errors.New("max_items must be non-negative")
	}
	if s.Parallelism < 1 {
		return errors.New("parallelism must be positive")
	}
	if s.Delay < 0 {
		return errors.New("delay must be non-negative")
	}
	if s.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if s.UserAgent == "" {
		return errors.New("user_agent is required")
	}
	return nil
}
