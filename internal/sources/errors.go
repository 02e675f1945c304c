package sources

import "errors"

// Error types for the sources package.
var (
	// ErrNoSources indicates no sources were found in the configuration.
	ErrNoSources = errors.New("no sources found in configuration")

	// ErrInvalidSourceFormat indicates the source format is invalid.
	ErrInvalidSourceFormat = errors.New("invalid source format")

	// ErrUnknownField indicates a field spec names a field outside the enum.
	ErrUnknownField = errors.New("unknown field name")

	// ErrInvalidSelector indicates a selector expression failed to compile.
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrSourceNotFound is returned when the requested source is not found.
	ErrSourceNotFound = errors.New("source not found")
)
