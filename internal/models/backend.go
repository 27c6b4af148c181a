package models

import (
	"errors"
	"fmt"
)

// BackendID identifies a bundler backend.
type BackendID string

const (
	BackendWebpack   BackendID = "webpack"
	BackendTurbopack BackendID = "turbopack"
	BackendEsbuild   BackendID = "esbuild"
)

// ErrInvalidBackendID indicates a backend name outside the known set
var ErrInvalidBackendID = errors.New("invalid backend id")

// KnownBackends lists every backend in declaration order.
func KnownBackends() []BackendID {
	return []BackendID{BackendWebpack, BackendTurbopack, BackendEsbuild}
}

// ParseBackendID converts s into a BackendID. The empty string is accepted and
// means "unspecified".
func ParseBackendID(s string) (BackendID, error) {
	if s == "" {
		return "", nil
	}
	for _, b := range KnownBackends() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBackendID, s)
}

func (b BackendID) String() string {
	if b == "" {
		return "unspecified"
	}
	return string(b)
}
