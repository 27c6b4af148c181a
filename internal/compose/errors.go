package compose

import (
	"errors"
	"fmt"

	"github.com/wolfeidau/bundlecompose/internal/models"
)

var (
	// ErrUnknownBackend indicates the requested backend is not in the catalog
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrUnrecognizedOption indicates a merged option key the backend does not accept
	ErrUnrecognizedOption = errors.New("unrecognized option")
	// ErrInvalidExternal indicates a malformed externals entry
	ErrInvalidExternal = errors.New("invalid external")
	// ErrUnserializableOption indicates an option value that cannot be encoded as JSON
	ErrUnserializableOption = errors.New("option value cannot be serialized")
)

// UnknownBackendError names a backend identifier missing from the catalog.
type UnknownBackendError struct {
	Backend models.BackendID
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend %q", string(e.Backend))
}

func (e *UnknownBackendError) Is(target error) bool { return target == ErrUnknownBackend }

// UnrecognizedOptionError names an option key rejected by a backend.
type UnrecognizedOptionError struct {
	Key     string
	Backend models.BackendID
}

func (e *UnrecognizedOptionError) Error() string {
	return fmt.Sprintf("option %q is not recognized by backend %q", e.Key, string(e.Backend))
}

func (e *UnrecognizedOptionError) Is(target error) bool { return target == ErrUnrecognizedOption }

// InvalidExternalError describes a malformed externals entry.
type InvalidExternalError struct {
	Identifier string
	Index      int
	Reason     string
}

func (e *InvalidExternalError) Error() string {
	return fmt.Sprintf("invalid external %q at index %d: %s", e.Identifier, e.Index, e.Reason)
}

func (e *InvalidExternalError) Is(target error) bool { return target == ErrInvalidExternal }
