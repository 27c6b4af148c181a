package models

import "sort"

// ConfigFragment is a named, read-only piece of bundler configuration.
// Construct with NewFragment; the zero value is an empty backend-neutral fragment.
type ConfigFragment struct {
	name      string
	backend   BackendID
	options   map[string]any
	externals []string
}

// NewFragment builds a fragment from copies of options and externals, so later
// changes by the caller are not observed.
func NewFragment(name string, backend BackendID, options map[string]any, externals []string) ConfigFragment {
	ext := make([]string, len(externals))
	copy(ext, externals)

	return ConfigFragment{
		name:      name,
		backend:   backend,
		options:   CloneOptions(options),
		externals: ext,
	}
}

func (f ConfigFragment) Name() string { return f.name }

// Backend returns the backend the fragment targets, or "" when it applies to any backend.
func (f ConfigFragment) Backend() BackendID { return f.backend }

// Options returns a deep copy of the fragment options.
func (f ConfigFragment) Options() map[string]any { return CloneOptions(f.options) }

// OptionKeys returns the option names in sorted order.
func (f ConfigFragment) OptionKeys() []string {
	keys := make([]string, 0, len(f.options))
	for k := range f.options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Externals returns a copy of the externals in declaration order.
func (f ConfigFragment) Externals() []string {
	out := make([]string, len(f.externals))
	copy(out, f.externals)
	return out
}
