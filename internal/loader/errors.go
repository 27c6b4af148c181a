package loader

import "errors"

var (
	// ErrReadDocument indicates the fragment document could not be read
	ErrReadDocument = errors.New("failed to read fragment document")
	// ErrParseDocument indicates the fragment document is not valid YAML or JSON
	ErrParseDocument = errors.New("failed to parse fragment document")
	// ErrInvalidDocument indicates the fragment document failed schema validation
	ErrInvalidDocument = errors.New("invalid fragment document")
)
