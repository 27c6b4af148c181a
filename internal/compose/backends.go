package compose

import (
	"sort"

	"github.com/wolfeidau/bundlecompose/internal/models"
)

// Backend describes a bundler backend and the option keys it accepts.
type Backend struct {
	ID          models.BackendID
	Description string
	options     map[string]struct{}
}

// NewBackend creates a backend definition accepting the given option keys.
func NewBackend(id models.BackendID, description string, options ...string) Backend {
	set := make(map[string]struct{}, len(options))
	for _, o := range options {
		set[o] = struct{}{}
	}
	return Backend{ID: id, Description: description, options: set}
}

// Accepts reports whether key is a recognized option for the backend.
func (b Backend) Accepts(key string) bool {
	_, ok := b.options[key]
	return ok
}

// Options returns the accepted option keys in sorted order.
func (b Backend) Options() []string {
	out := make([]string, 0, len(b.options))
	for k := range b.options {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Option keys understood by the esbuild invocation layer.
const (
	OptEntryPoints = "entryPoints"
	OptOutdir      = "outdir"
	OptBundle      = "bundle"
	OptSplitting   = "splitting"
	OptMinify      = "minify"
	OptSourcemap   = "sourcemap"
	OptFormat      = "format"
	OptPlatform    = "platform"
	OptTarget      = "target"
	OptJSX         = "jsx"
	OptMetafile    = "metafile"
	OptDefine      = "define"
)

// DefaultBackends returns the built-in catalog.
func DefaultBackends() []Backend {
	return []Backend{
		NewBackend(models.BackendWebpack, "webpack module bundler",
			"cache", "context", "devtool", "entry", "experiments", "externalsType",
			"mode", "module", "optimization", "output", "performance", "plugins",
			"resolve", "stats", "target",
		),
		NewBackend(models.BackendTurbopack, "turbopack incremental bundler",
			"memoryLimit", "minify", "moduleIds", "resolveAlias", "resolveExtensions",
			"root", "rules", "sourceMaps", "treeShaking",
		),
		NewBackend(models.BackendEsbuild, "esbuild bundler (built in)",
			OptEntryPoints, OptOutdir, OptBundle, OptSplitting, OptMinify, OptSourcemap,
			OptFormat, OptPlatform, OptTarget, OptJSX, OptMetafile, OptDefine,
		),
	}
}
