package assets

import "errors"

var (
	// ErrWrongBackend indicates a resolved configuration composed for a backend other than esbuild
	ErrWrongBackend = errors.New("configuration was not composed for esbuild")
	// ErrInvalidOption indicates an option value of the wrong type or outside the allowed values
	ErrInvalidOption = errors.New("invalid esbuild option")
	// ErrNoEntryPoints indicates the entry point patterns matched no files
	ErrNoEntryPoints = errors.New("no entry points found")
	// ErrBuildFailed indicates esbuild reported errors
	ErrBuildFailed = errors.New("esbuild failed with errors")
	// ErrNotBuilt indicates metadata was requested before a successful build
	ErrNotBuilt = errors.New("assets not built yet, call Build() first")
)
