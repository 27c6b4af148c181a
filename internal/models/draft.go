package models

import (
	"sort"

	"github.com/wolfeidau/bundlecompose/internal/externals"
)

// Draft is the mutable state of a single composition pass. It is created
// fresh per pass and must not be retained by hooks after they return.
type Draft struct {
	backend   BackendID
	options   map[string]any
	externals *externals.Registry
}

// NewDraft creates an empty draft for backend.
func NewDraft(backend BackendID) *Draft {
	return &Draft{
		backend:   backend,
		options:   make(map[string]any),
		externals: externals.New(),
	}
}

// Backend returns the backend this draft is being composed for.
func (d *Draft) Backend() BackendID { return d.backend }

// Externals returns the draft's registry. The registry itself cannot be
// replaced; callers add to it through its methods.
func (d *Draft) Externals() *externals.Registry { return d.externals }

// Option returns the current value for key.
func (d *Draft) Option(key string) (any, bool) {
	v, ok := d.options[key]
	return v, ok
}

// SetOption stores a copy of value under key, replacing any earlier value.
func (d *Draft) SetOption(key string, value any) {
	d.options[key] = CloneValue(value)
}

// MergeOptions overlays opts onto the draft; keys in opts win.
func (d *Draft) MergeOptions(opts map[string]any) {
	for k, v := range opts {
		d.SetOption(k, v)
	}
}

// DeleteOption removes key if present.
func (d *Draft) DeleteOption(key string) {
	delete(d.options, key)
}

// OptionKeys returns the current option names in sorted order.
func (d *Draft) OptionKeys() []string {
	keys := make([]string, 0, len(d.options))
	for k := range d.options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Options returns a deep copy of the current options.
func (d *Draft) Options() map[string]any {
	return CloneOptions(d.options)
}
