package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wolfeidau/bundlecompose/internal/compose"
	"github.com/wolfeidau/bundlecompose/internal/hooks"
	"github.com/wolfeidau/bundlecompose/internal/models"
	"gopkg.in/yaml.v3"
)

// Format selects the document decoder.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks JSON for .json files and YAML for everything else.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Spec is a loaded document converted into composition inputs.
type Spec struct {
	Base             models.ConfigFragment
	BackendFragments []models.ConfigFragment
	Hooks            []hooks.Hook
}

// ComposerOptions registers the backend fragments with a composer.
func (s *Spec) ComposerOptions() []compose.Option {
	opts := make([]compose.Option, 0, len(s.BackendFragments))
	for _, f := range s.BackendFragments {
		opts = append(opts, compose.WithBackendFragment(f))
	}
	return opts
}

// Loader decodes and validates fragment documents.
type Loader struct {
	validate *validator.Validate
}

func New() *Loader {
	return &Loader{validate: validator.New()}
}

// Load reads the document at path.
func (l *Loader) Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadDocument, err)
	}
	return l.Parse(data, FormatForPath(path))
}

// Parse decodes data in the given format.
func (l *Loader) Parse(data []byte, format Format) (*Spec, error) {
	var doc Document

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseDocument, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseDocument, err)
		}
	}

	if err := l.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return doc.toSpec()
}

func (doc Document) toSpec() (*Spec, error) {
	backend, err := models.ParseBackendID(doc.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	spec := &Spec{
		Base: models.NewFragment(doc.Name, backend, doc.Options, doc.Externals),
	}

	// Map iteration order is random; sort so merge order is reproducible.
	names := make([]string, 0, len(doc.Backends))
	for name := range doc.Backends {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		id, err := models.ParseBackendID(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		section := doc.Backends[name]
		spec.BackendFragments = append(spec.BackendFragments,
			models.NewFragment(doc.Name+"."+name, id, section.Options, section.Externals))
	}

	for _, name := range doc.Presets {
		h, ok := hooks.Preset(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidDocument, name)
		}
		spec.Hooks = append(spec.Hooks, h)
	}

	for _, hs := range doc.Hooks {
		spec.Hooks = append(spec.Hooks, hs.hook())
	}

	return spec, nil
}

func (hs HookSpec) hook() hooks.Hook {
	set := models.CloneOptions(hs.Set)
	unset := append([]string(nil), hs.Unset...)
	ext := append([]string(nil), hs.Externals...)

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return hooks.New(hs.Name, func(d *models.Draft) error {
		for _, k := range keys {
			d.SetOption(k, set[k])
		}
		for _, k := range unset {
			d.DeleteOption(k)
		}
		d.Externals().AddAll(ext...)
		return nil
	}).WithPriority(hs.Priority)
}
