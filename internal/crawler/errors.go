// Package crawler provides the core crawling functionality for the application.
package crawler

import (
	"errors"
	"fmt"
)

// Error types for the crawler package.
var (
	// ErrInvalidConfig is returned when the crawler configuration is invalid.
	ErrInvalidConfig = errors.New("invalid crawler configuration")

	// ErrSourceUnreachable is returned when a source's first page cannot be
	// fetched. Fatal to that source only; the run continues.
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrAlreadyRunning is returned when Run is called on a running crawler.
	ErrAlreadyRunning = errors.New("crawler is already running")
)

// SourceError wraps a per-source failure with the source name.
type SourceError struct {
	Source string
	Err    error
}

// Error returns the error message.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}
