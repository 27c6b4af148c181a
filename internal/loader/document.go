// Package loader reads declarative fragment documents from YAML or JSON files.
package loader

// Document is the on-disk form of a base fragment, its backend-specific
// sub-fragments and the override hooks to apply.
type Document struct {
	Name      string                    `yaml:"name" json:"name" validate:"required"`
	Backend   string                    `yaml:"backend" json:"backend" validate:"omitempty,oneof=webpack turbopack esbuild"`
	Options   map[string]any            `yaml:"options" json:"options"`
	Externals []string                  `yaml:"externals" json:"externals"`
	Backends  map[string]BackendSection `yaml:"backends" json:"backends" validate:"dive,keys,oneof=webpack turbopack esbuild,endkeys"`
	Presets   []string                  `yaml:"presets" json:"presets" validate:"dive,oneof=server-externals"`
	Hooks     []HookSpec                `yaml:"hooks" json:"hooks" validate:"dive"`
}

// BackendSection holds options and externals merged only for one backend.
type BackendSection struct {
	Options   map[string]any `yaml:"options" json:"options"`
	Externals []string       `yaml:"externals" json:"externals"`
}

// HookSpec is a declarative override hook. It applies Set, then Unset, then
// appends Externals.
type HookSpec struct {
	Name      string         `yaml:"name" json:"name" validate:"required"`
	Priority  int            `yaml:"priority" json:"priority"`
	Externals []string       `yaml:"externals" json:"externals"`
	Set       map[string]any `yaml:"set" json:"set"`
	Unset     []string       `yaml:"unset" json:"unset"`
}
