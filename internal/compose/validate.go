package compose

import (
	"strings"
	"unicode"

	"github.com/wolfeidau/bundlecompose/internal/models"
)

func validateOptions(b Backend, d *models.Draft) error {
	// OptionKeys is sorted, so the first reported key is stable across runs.
	for _, key := range d.OptionKeys() {
		if !b.Accepts(key) {
			return &UnrecognizedOptionError{Key: key, Backend: b.ID}
		}
	}
	return nil
}

func validateExternals(ids []string) error {
	for i, id := range ids {
		if reason := externalProblem(id); reason != "" {
			return &InvalidExternalError{Identifier: id, Index: i, Reason: reason}
		}
	}
	return nil
}

// externalProblem returns why id is not a usable module identifier, or "".
// Wildcards follow esbuild's rule of at most one "*" per pattern.
func externalProblem(id string) string {
	switch {
	case id == "":
		return "empty identifier"
	case id == "." || id == "..":
		return "relative directory reference"
	case strings.HasPrefix(id, "/") || strings.HasSuffix(id, "/"):
		return "leading or trailing slash"
	case strings.Count(id, "*") > 1:
		return "more than one wildcard"
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "contains whitespace or control characters"
		}
	}
	return ""
}
