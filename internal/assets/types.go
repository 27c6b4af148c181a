package assets

import (
	"sync"
)

type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	Imports []ImportInfo `json:"imports"`
}

type ImportInfo struct {
	Path     string `json:"path"`
	External bool   `json:"external,omitempty"`
}

// OutputFile describes a single build artefact.
type OutputFile struct {
	Path     string `json:"path"`
	Bytes    int    `json:"bytes"`
	Checksum string `json:"crc64nvme"`
}

// Result summarises a completed build.
type Result struct {
	Fingerprint string       `json:"fingerprint"`
	Outputs     []OutputFile `json:"outputs"`
	Metafile    string       `json:"metafile,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// Pipeline hands resolved esbuild configurations to esbuild and keeps the
// metadata of the last successful build for import analysis.
type Pipeline struct {
	config   Config
	metadata *BuildMetadata
	mu       sync.RWMutex
}

// New creates a new asset pipeline with the given configuration
func New(config Config) *Pipeline {
	return &Pipeline{
		config: config,
	}
}
