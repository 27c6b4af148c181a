package compose

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/wolfeidau/bundlecompose/internal/models"
)

// ResolvedConfig is the frozen output of a composition. All accessors return
// copies; there is no mutation path.
type ResolvedConfig struct {
	backend     models.BackendID
	options     map[string]any
	externals   []string
	sources     []string
	hooks       []string
	fingerprint string
}

type canonicalConfig struct {
	Backend   models.BackendID `json:"backend"`
	Options   map[string]any   `json:"options"`
	Externals []string         `json:"externals"`
}

type resolvedView struct {
	Backend     models.BackendID `json:"backend" yaml:"backend"`
	Options     map[string]any   `json:"options" yaml:"options"`
	Externals   []string         `json:"externals" yaml:"externals"`
	Sources     []string         `json:"sources" yaml:"sources"`
	Hooks       []string         `json:"hooks" yaml:"hooks"`
	Fingerprint string           `json:"fingerprint" yaml:"fingerprint"`
}

func freeze(d *models.Draft, sources, hookNames []string) (*ResolvedConfig, error) {
	rc := &ResolvedConfig{
		backend:   d.Backend(),
		options:   d.Options(),
		externals: d.Externals().Ordered(),
		sources:   append([]string{}, sources...),
		hooks:     append([]string{}, hookNames...),
	}

	// encoding/json sorts map keys, which makes this encoding canonical.
	data, err := json.Marshal(canonicalConfig{Backend: rc.backend, Options: rc.options, Externals: rc.externals})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnserializableOption, err)
	}
	sum := sha256.Sum256(data)
	rc.fingerprint = base58.Encode(sum[:])

	return rc, nil
}

// Backend returns the backend the configuration was composed for.
func (rc *ResolvedConfig) Backend() models.BackendID { return rc.backend }

// Options returns a deep copy of the merged options.
func (rc *ResolvedConfig) Options() map[string]any { return models.CloneOptions(rc.options) }

// Option returns a copy of a single option value.
func (rc *ResolvedConfig) Option(key string) (any, bool) {
	v, ok := rc.options[key]
	if !ok {
		return nil, false
	}
	return models.CloneValue(v), true
}

// Externals returns the externalized identifiers in first-insertion order.
func (rc *ResolvedConfig) Externals() []string { return append([]string{}, rc.externals...) }

// Sources returns the fragment names merged into this configuration, in merge order.
func (rc *ResolvedConfig) Sources() []string { return append([]string{}, rc.sources...) }

// Hooks returns the names of the hooks applied, in execution order.
func (rc *ResolvedConfig) Hooks() []string { return append([]string{}, rc.hooks...) }

// Fingerprint is a base58 SHA-256 digest of the backend, options and externals.
// Identical compositions produce identical fingerprints.
func (rc *ResolvedConfig) Fingerprint() string { return rc.fingerprint }

func (rc *ResolvedConfig) view() resolvedView {
	return resolvedView{
		Backend:     rc.backend,
		Options:     rc.Options(),
		Externals:   rc.Externals(),
		Sources:     rc.Sources(),
		Hooks:       rc.Hooks(),
		Fingerprint: rc.fingerprint,
	}
}

func (rc *ResolvedConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(rc.view())
}

func (rc *ResolvedConfig) MarshalYAML() (any, error) {
	return rc.view(), nil
}
