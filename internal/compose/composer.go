// Package compose merges bundler configuration fragments and override hooks
// into a single validated configuration.
package compose

import (
	"github.com/wolfeidau/bundlecompose/internal/hooks"
	"github.com/wolfeidau/bundlecompose/internal/models"
)

// Composer holds the backend catalog and backend-specific fragments. It is
// read-only after New, so Compose may be called concurrently.
type Composer struct {
	backends  map[models.BackendID]Backend
	order     []models.BackendID
	fragments []models.ConfigFragment
}

// Option configures a Composer.
type Option func(*Composer)

// WithBackend registers b, replacing any definition with the same ID.
func WithBackend(b Backend) Option {
	return func(c *Composer) {
		if _, ok := c.backends[b.ID]; !ok {
			c.order = append(c.order, b.ID)
		}
		c.backends[b.ID] = b
	}
}

// WithBackendFragment registers a sub-fragment merged whenever its backend is
// the composition target. A fragment with no backend is merged for every target.
func WithBackendFragment(f models.ConfigFragment) Option {
	return func(c *Composer) {
		c.fragments = append(c.fragments, f)
	}
}

// New creates a Composer seeded with DefaultBackends.
func New(opts ...Option) *Composer {
	c := &Composer{backends: make(map[models.BackendID]Backend)}
	for _, b := range DefaultBackends() {
		WithBackend(b)(c)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backends returns the catalog in registration order.
func (c *Composer) Backends() []Backend {
	out := make([]Backend, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.backends[id])
	}
	return out
}

// Backend looks up a backend definition.
func (c *Composer) Backend(id models.BackendID) (Backend, bool) {
	b, ok := c.backends[id]
	return b, ok
}

// Compose merges base, the backend fragments matching the target and the
// given hooks into a ResolvedConfig. An empty backend selects base.Backend().
//
// On any failure no configuration is returned. Inputs are never modified.
func (c *Composer) Compose(base models.ConfigFragment, backend models.BackendID, hs []hooks.Hook) (*ResolvedConfig, error) {
	if backend == "" {
		backend = base.Backend()
	}
	target, ok := c.backends[backend]
	if !ok {
		return nil, &UnknownBackendError{Backend: backend}
	}

	pipeline, err := hooks.NewPipeline(hs...)
	if err != nil {
		return nil, err
	}

	draft := models.NewDraft(target.ID)
	sources := []string{base.Name()}
	draft.MergeOptions(base.Options())
	draft.Externals().AddAll(base.Externals()...)

	for _, f := range c.fragments {
		if f.Backend() != "" && f.Backend() != target.ID {
			continue
		}
		draft.MergeOptions(f.Options())
		draft.Externals().AddAll(f.Externals()...)
		sources = append(sources, f.Name())
	}

	if err := pipeline.Run(draft); err != nil {
		return nil, err
	}

	if err := validateOptions(target, draft); err != nil {
		return nil, err
	}
	if err := validateExternals(draft.Externals().Ordered()); err != nil {
		return nil, err
	}

	applied := pipeline.Hooks()
	names := make([]string, len(applied))
	for i, h := range applied {
		names[i] = h.Name
	}

	return freeze(draft, sources, names)
}
