package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/bundlecompose/internal/compose"
)

// Build runs esbuild with the resolved configuration and loads metadata
func (p *Pipeline) Build(rc *compose.ResolvedConfig) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.plan(rc)
	if err != nil {
		return nil, err
	}
	opts := plan.opts

	log.Info().
		Strs("entrypoints", opts.EntryPoints).
		Strs("externals", opts.External).
		Str("fingerprint", rc.Fingerprint()).
		Msg("Building assets")

	result := api.Build(opts)

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			log.Error().Str("error", msg.Text).Msg("Build error")
		}
		return nil, fmt.Errorf("%w: %s", ErrBuildFailed, result.Errors[0].Text)
	}

	res := &Result{Fingerprint: rc.Fingerprint()}
	for _, msg := range result.Warnings {
		log.Warn().Str("warning", msg.Text).Msg("Build warning")
		res.Warnings = append(res.Warnings, msg.Text)
	}

	for _, file := range result.OutputFiles {
		log.Info().Str("file", file.Path).Msg("Built file")
		res.Outputs = append(res.Outputs, OutputFile{
			Path:     file.Path,
			Bytes:    len(file.Contents),
			Checksum: checksum(file.Contents),
		})

		if p.config.Write && p.config.Precompress {
			if err := precompress(file.Path, file.Contents); err != nil {
				return nil, err
			}
		}
	}

	if plan.metafile != "" {
		res.Metafile = p.resolve(plan.metafile)
		if err := os.WriteFile(res.Metafile, []byte(result.Metafile), 0600); err != nil {
			return nil, fmt.Errorf("failed to write metafile: %w", err)
		}
	}

	if p.config.Write && p.config.ManifestName != "" && opts.Outdir != "" {
		if err := writeManifest(filepath.Join(p.resolve(opts.Outdir), p.config.ManifestName), res); err != nil {
			return nil, err
		}
	}

	// Parse and cache metadata
	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metafile: %w", err)
	}

	p.metadata = &metadata
	return res, nil
}

func (p *Pipeline) resolve(path string) string {
	if filepath.IsAbs(path) || p.config.WorkDir == "" {
		return path
	}
	return filepath.Join(p.config.WorkDir, path)
}

// ExternalImports lists the distinct external import paths recorded in the
// last build's metadata, sorted.
func (p *Pipeline) ExternalImports() ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.metadata == nil {
		return nil, ErrNotBuilt
	}

	seen := make(map[string]struct{})
	var out []string
	for _, info := range p.metadata.Outputs {
		for _, imp := range info.Imports {
			if !imp.External {
				continue
			}
			if _, ok := seen[imp.Path]; ok {
				continue
			}
			seen[imp.Path] = struct{}{}
			out = append(out, imp.Path)
		}
	}
	sort.Strings(out)
	return out, nil
}
