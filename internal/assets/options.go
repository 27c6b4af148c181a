package assets

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/bundlecompose/internal/compose"
	"github.com/wolfeidau/bundlecompose/internal/models"
)

var (
	formats = map[string]api.Format{
		"esm":  api.FormatESModule,
		"cjs":  api.FormatCommonJS,
		"iife": api.FormatIIFE,
	}
	platforms = map[string]api.Platform{
		"browser": api.PlatformBrowser,
		"node":    api.PlatformNode,
		"neutral": api.PlatformNeutral,
	}
	jsxModes = map[string]api.JSX{
		"automatic": api.JSXAutomatic,
		"transform": api.JSXTransform,
		"preserve":  api.JSXPreserve,
	}
	targets = map[string]api.Target{
		"esnext": api.ESNext,
		"es5":    api.ES5,
		"es2015": api.ES2015,
		"es2016": api.ES2016,
		"es2017": api.ES2017,
		"es2018": api.ES2018,
		"es2019": api.ES2019,
		"es2020": api.ES2020,
		"es2021": api.ES2021,
		"es2022": api.ES2022,
	}
)

// buildPlan is a translated configuration plus the settings esbuild itself
// does not act on.
type buildPlan struct {
	opts     api.BuildOptions
	metafile string
}

// BuildOptions translates a resolved esbuild configuration into esbuild API
// options. Entry point patterns are expanded relative to the configured WorkDir.
func (p *Pipeline) BuildOptions(rc *compose.ResolvedConfig) (api.BuildOptions, error) {
	plan, err := p.plan(rc)
	if err != nil {
		return api.BuildOptions{}, err
	}
	return plan.opts, nil
}

func (p *Pipeline) plan(rc *compose.ResolvedConfig) (buildPlan, error) {
	if rc.Backend() != models.BackendEsbuild {
		return buildPlan{}, fmt.Errorf("%w: got %s", ErrWrongBackend, rc.Backend())
	}

	o := optionReader{opts: rc.Options()}

	patterns := o.list(compose.OptEntryPoints)
	if o.err != nil {
		return buildPlan{}, o.err
	}
	entryPoints, err := p.expand(patterns)
	if err != nil {
		return buildPlan{}, err
	}

	minify := o.flag(compose.OptMinify)

	opts := api.BuildOptions{
		EntryPoints:       entryPoints,
		AbsWorkingDir:     p.config.WorkDir,
		Outdir:            o.text(compose.OptOutdir),
		Bundle:            o.flag(compose.OptBundle),
		Splitting:         o.flag(compose.OptSplitting),
		Write:             p.config.Write,
		MinifyWhitespace:  minify,
		MinifyIdentifiers: minify,
		MinifySyntax:      minify,
		Sourcemap:         cond(o.flag(compose.OptSourcemap), api.SourceMapLinked, api.SourceMapNone),
		Metafile:          true,
		External:          rc.Externals(),
		Define:            o.dict(compose.OptDefine),
		LogLevel:          api.LogLevelSilent,
	}

	if opts.Bundle {
		opts.TreeShaking = api.TreeShakingTrue
	}
	if v := o.text(compose.OptFormat); v != "" {
		opts.Format, err = lookup(formats, compose.OptFormat, v)
	}
	if v := o.text(compose.OptPlatform); v != "" && err == nil {
		opts.Platform, err = lookup(platforms, compose.OptPlatform, v)
	}
	if v := o.text(compose.OptJSX); v != "" && err == nil {
		opts.JSX, err = lookup(jsxModes, compose.OptJSX, v)
	}
	if v := o.text(compose.OptTarget); v != "" && err == nil {
		opts.Target, err = lookup(targets, compose.OptTarget, v)
	}
	if err != nil {
		return buildPlan{}, err
	}

	metafile := o.text(compose.OptMetafile)
	if o.err != nil {
		return buildPlan{}, o.err
	}

	return buildPlan{opts: opts, metafile: metafile}, nil
}

func (p *Pipeline) expand(patterns []string) ([]string, error) {
	var entryPoints []string
	for _, pattern := range patterns {
		abs := filepath.IsAbs(pattern)
		if !abs {
			pattern = filepath.Join(p.config.WorkDir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: entry point pattern %q: %v", ErrInvalidOption, pattern, err)
		}
		for _, m := range matches {
			if !abs && p.config.WorkDir != "" {
				if rel, err := filepath.Rel(p.config.WorkDir, m); err == nil {
					m = rel
				}
			}
			entryPoints = append(entryPoints, m)
		}
	}
	if len(entryPoints) == 0 {
		return nil, ErrNoEntryPoints
	}
	sort.Strings(entryPoints)
	return entryPoints, nil
}

func lookup[T any](table map[string]T, key, value string) (T, error) {
	v, ok := table[value]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s=%q", ErrInvalidOption, key, value)
	}
	return v, nil
}

// optionReader records the first type error and returns zero values after it.
type optionReader struct {
	opts map[string]any
	err  error
}

func (r *optionReader) fail(key string, want string, got any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidOption, key, want, got)
	}
}

func (r *optionReader) flag(key string) bool {
	v, ok := r.opts[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(key, "a boolean", v)
	}
	return b
}

func (r *optionReader) text(key string) string {
	v, ok := r.opts[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, "a string", v)
	}
	return s
}

func (r *optionReader) list(key string) []string {
	switch v := r.opts[key].(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				r.fail(key, "a list of strings", e)
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		r.fail(key, "a list of strings", v)
		return nil
	}
}

func (r *optionReader) dict(key string) map[string]string {
	switch v := r.opts[key].(type) {
	case nil:
		return nil
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, e := range v {
			s, ok := e.(string)
			if !ok {
				r.fail(key, "a map of strings", e)
				return nil
			}
			out[k] = s
		}
		return out
	default:
		r.fail(key, "a map of strings", v)
		return nil
	}
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
