package compose

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/bundlecompose/internal/hooks"
	"github.com/wolfeidau/bundlecompose/internal/models"
	"gopkg.in/yaml.v3"
)

func TestCompose_ServerExternalsScenario(t *testing.T) {
	base := models.NewFragment("next", models.BackendTurbopack, nil, []string{"pino-pretty"})
	hook := hooks.New("ssr", func(d *models.Draft) error {
		d.Externals().AddAll("lokijs", "encoding")
		return nil
	})

	rc, err := New().Compose(base, models.BackendTurbopack, []hooks.Hook{hook})
	require.NoError(t, err)

	assert.Equal(t, []string{"pino-pretty", "lokijs", "encoding"}, rc.Externals())
	assert.Equal(t, models.BackendTurbopack, rc.Backend())
	assert.Equal(t, []string{"next"}, rc.Sources())
	assert.Equal(t, []string{"ssr"}, rc.Hooks())
}

func TestCompose_UnknownBackend(t *testing.T) {
	_, err := New().Compose(models.NewFragment("base", "", nil, nil), "nonexistent", nil)

	var unknown *UnknownBackendError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, models.BackendID("nonexistent"), unknown.Backend)
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestCompose_EmptyBackendUsesBaseBackend(t *testing.T) {
	rc, err := New().Compose(models.NewFragment("base", models.BackendWebpack, nil, nil), "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BackendWebpack, rc.Backend())

	_, err = New().Compose(models.NewFragment("base", "", nil, nil), "", nil)
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestCompose_RequestedBackendOverridesBase(t *testing.T) {
	base := models.NewFragment("base", models.BackendWebpack, nil, []string{"pino-pretty"})

	rc, err := New().Compose(base, models.BackendTurbopack, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BackendTurbopack, rc.Backend())
}

func TestCompose_Deterministic(t *testing.T) {
	base := models.NewFragment("base", models.BackendEsbuild,
		map[string]any{
			OptOutdir: "dist",
			OptDefine: map[string]any{"process.env.NODE_ENV": `"production"`, "DEBUG": "false"},
			OptMinify: true,
			OptTarget: "es2022",
			OptBundle: true,
			OptJSX:    "automatic",
			OptFormat: "esm",
		},
		[]string{"pino-pretty"},
	)
	hs := []hooks.Hook{
		hooks.ServerExternals(),
		hooks.SetOption("sourcemap", OptSourcemap, true).WithPriority(-1),
	}

	c := New()
	first, err := c.Compose(base, models.BackendEsbuild, hs)
	require.NoError(t, err)
	second, err := c.Compose(base, models.BackendEsbuild, hs)
	require.NoError(t, err)

	assert.Equal(t, first.Backend(), second.Backend())
	assert.Equal(t, first.Options(), second.Options())
	assert.Equal(t, first.Externals(), second.Externals())
	assert.Equal(t, first.Hooks(), second.Hooks())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.Equal(t, []string{"sourcemap", hooks.ServerExternalsName}, first.Hooks())
}

func TestCompose_HookFailureReturnsNoConfig(t *testing.T) {
	boom := errors.New("cannot patch externals")
	hs := []hooks.Hook{
		hooks.AddExternals("first", "lokijs"),
		hooks.New("broken", func(*models.Draft) error { return boom }),
	}

	rc, err := New().Compose(models.NewFragment("base", models.BackendWebpack, nil, nil), models.BackendWebpack, hs)
	require.Nil(t, rc)

	var hookErr *hooks.HookExecutionError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, "broken", hookErr.Hook)
	assert.Equal(t, 1, hookErr.Position)
	assert.ErrorIs(t, err, boom)
}

func TestCompose_DuplicateHookNames(t *testing.T) {
	hs := []hooks.Hook{hooks.ServerExternals(), hooks.ServerExternals()}

	rc, err := New().Compose(models.NewFragment("base", models.BackendWebpack, nil, nil), "", hs)
	require.Nil(t, rc)
	require.ErrorIs(t, err, hooks.ErrDuplicateHook)
}

func TestCompose_UnrecognizedOption(t *testing.T) {
	tests := []struct {
		name    string
		base    map[string]any
		hook    *hooks.Hook
		backend models.BackendID
		wantKey string
	}{
		{
			name:    "base option foreign to backend",
			base:    map[string]any{"mode": "production", "entryPoints": []any{"a.ts"}},
			backend: models.BackendWebpack,
			wantKey: "entryPoints",
		},
		{
			name:    "hook introduces unknown key",
			base:    map[string]any{"minify": true},
			hook:    ptr(hooks.SetOption("bad", "experimentalThing", 1)),
			backend: models.BackendTurbopack,
			wantKey: "experimentalThing",
		},
		{
			name:    "first key in sorted order is reported",
			base:    map[string]any{"zzz": 1, "aaa": 2},
			backend: models.BackendEsbuild,
			wantKey: "aaa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hs []hooks.Hook
			if tt.hook != nil {
				hs = append(hs, *tt.hook)
			}

			rc, err := New().Compose(models.NewFragment("base", "", tt.base, nil), tt.backend, hs)
			require.Nil(t, rc)

			var optErr *UnrecognizedOptionError
			require.ErrorAs(t, err, &optErr)
			assert.Equal(t, tt.wantKey, optErr.Key)
			assert.Equal(t, tt.backend, optErr.Backend)
			assert.ErrorIs(t, err, ErrUnrecognizedOption)
		})
	}
}

func TestCompose_InvalidExternals(t *testing.T) {
	tests := []struct {
		name      string
		externals []string
		wantIndex int
		wantErr   bool
	}{
		{name: "valid scoped package", externals: []string{"@walletconnect/sign-client", "lokijs"}},
		{name: "valid wildcard", externals: []string{"node:*"}},
		{name: "valid subpath", externals: []string{"react-dom/server"}},
		{name: "empty string", externals: []string{"ok", ""}, wantIndex: 1, wantErr: true},
		{name: "whitespace", externals: []string{"pino pretty"}, wantIndex: 0, wantErr: true},
		{name: "trailing newline", externals: []string{"a", "b", "encoding\n"}, wantIndex: 2, wantErr: true},
		{name: "two wildcards", externals: []string{"*/*"}, wantIndex: 0, wantErr: true},
		{name: "dot dot", externals: []string{".."}, wantIndex: 0, wantErr: true},
		{name: "leading slash", externals: []string{"/abs"}, wantIndex: 0, wantErr: true},
		{name: "trailing slash", externals: []string{"pkg/"}, wantIndex: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := New().Compose(models.NewFragment("base", models.BackendWebpack, nil, tt.externals), "", nil)
			if !tt.wantErr {
				require.NoError(t, err)
				require.Equal(t, tt.externals, rc.Externals())
				return
			}

			require.Nil(t, rc)
			var extErr *InvalidExternalError
			require.ErrorAs(t, err, &extErr)
			assert.Equal(t, tt.wantIndex, extErr.Index)
			assert.Equal(t, tt.externals[tt.wantIndex], extErr.Identifier)
			assert.ErrorIs(t, err, ErrInvalidExternal)
		})
	}
}

func TestCompose_InvalidExternalFromHook(t *testing.T) {
	hs := []hooks.Hook{hooks.AddExternals("sloppy", "lokijs", " ")}

	_, err := New().Compose(models.NewFragment("base", models.BackendWebpack, nil, []string{"pino-pretty"}), "", hs)

	var extErr *InvalidExternalError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, 2, extErr.Index)
}

func TestCompose_MergesBackendFragments(t *testing.T) {
	c := New(
		WithBackendFragment(models.NewFragment("webpack-only", models.BackendWebpack,
			map[string]any{"target": "node"}, []string{"bufferutil"})),
		WithBackendFragment(models.NewFragment("shared", "",
			map[string]any{"minify": false}, []string{"pino-pretty", "utf-8-validate"})),
		WithBackendFragment(models.NewFragment("turbo-only", models.BackendTurbopack,
			map[string]any{"memoryLimit": 4096}, []string{"sharp"})),
	)
	base := models.NewFragment("base", "", map[string]any{"minify": true}, []string{"pino-pretty"})

	rc, err := c.Compose(base, models.BackendTurbopack, []hooks.Hook{hooks.ServerExternals()})
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "shared", "turbo-only"}, rc.Sources())
	assert.Equal(t, map[string]any{"minify": false, "memoryLimit": 4096}, rc.Options())
	assert.Equal(t, []string{"pino-pretty", "utf-8-validate", "sharp", "lokijs", "encoding"}, rc.Externals())
}

func TestCompose_DoesNotMutateBase(t *testing.T) {
	opts := map[string]any{"minify": true}
	base := models.NewFragment("base", models.BackendTurbopack, opts, []string{"pino-pretty"})
	hs := []hooks.Hook{
		hooks.SetOption("flip", "minify", false),
		hooks.AddExternals("more", "lokijs"),
	}

	_, err := New().Compose(base, "", hs)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"minify": true}, base.Options())
	assert.Equal(t, []string{"pino-pretty"}, base.Externals())
}

func TestResolvedConfig_IsImmutable(t *testing.T) {
	base := models.NewFragment("base", models.BackendEsbuild,
		map[string]any{OptEntryPoints: []any{"src/index.ts"}}, []string{"pino-pretty"})

	rc, err := New().Compose(base, "", nil)
	require.NoError(t, err)

	rc.Options()[OptEntryPoints].([]any)[0] = "changed"
	rc.Externals()[0] = "changed"
	v, _ := rc.Option(OptEntryPoints)
	v.([]any)[0] = "changed"

	assert.Equal(t, []any{"src/index.ts"}, rc.Options()[OptEntryPoints])
	assert.Equal(t, []string{"pino-pretty"}, rc.Externals())
}

func TestResolvedConfig_TypedOptionValuesAreIsolated(t *testing.T) {
	base := models.NewFragment("base", models.BackendWebpack, nil, nil)
	cache := map[string]int{"maxGenerations": 1}

	rc, err := New().Compose(base, "", []hooks.Hook{hooks.SetOption("cache", "cache", cache)})
	require.NoError(t, err)
	fingerprint := rc.Fingerprint()

	cache["maxGenerations"] = 99
	v, ok := rc.Option("cache")
	require.True(t, ok)
	v.(map[string]int)["injected"] = 7

	assert.Equal(t, map[string]int{"maxGenerations": 1}, rc.Options()["cache"])

	again, err := New().Compose(base, "", []hooks.Hook{
		hooks.SetOption("cache", "cache", map[string]int{"maxGenerations": 1}),
	})
	require.NoError(t, err)
	assert.Equal(t, fingerprint, rc.Fingerprint())
	assert.Equal(t, again.Fingerprint(), rc.Fingerprint())
}

func TestResolvedConfig_FingerprintTracksContent(t *testing.T) {
	c := New()
	base := models.NewFragment("base", models.BackendWebpack, nil, []string{"pino-pretty"})

	plain, err := c.Compose(base, "", nil)
	require.NoError(t, err)
	patched, err := c.Compose(base, "", []hooks.Hook{hooks.ServerExternals()})
	require.NoError(t, err)

	assert.NotEmpty(t, plain.Fingerprint())
	assert.NotEqual(t, plain.Fingerprint(), patched.Fingerprint())
}

func TestResolvedConfig_UnserializableOption(t *testing.T) {
	hs := []hooks.Hook{hooks.SetOption("fn", "plugins", func() {})}

	rc, err := New().Compose(models.NewFragment("base", models.BackendWebpack, nil, nil), "", hs)
	require.Nil(t, rc)
	require.ErrorIs(t, err, ErrUnserializableOption)
}

func TestResolvedConfig_MarshalYAML(t *testing.T) {
	rc, err := New().Compose(models.NewFragment("base", models.BackendWebpack,
		map[string]any{"mode": "production"}, []string{"pino-pretty"}), "", nil)
	require.NoError(t, err)

	out, err := yaml.Marshal(rc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "webpack", decoded["backend"])
	assert.Equal(t, []any{"pino-pretty"}, decoded["externals"])
	assert.Equal(t, rc.Fingerprint(), decoded["fingerprint"])
}

func TestCompose_ConcurrentCallsAreIndependent(t *testing.T) {
	c := New()
	base := models.NewFragment("base", "", nil, []string{"pino-pretty"})
	backends := []models.BackendID{models.BackendWebpack, models.BackendTurbopack, models.BackendEsbuild}

	var wg sync.WaitGroup
	results := make([]*ResolvedConfig, 30)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Compose(base, backends[i%len(backends)], []hooks.Hook{hooks.ServerExternals()})
		}(i)
	}
	wg.Wait()

	for i, rc := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, backends[i%len(backends)], rc.Backend())
		assert.Equal(t, []string{"pino-pretty", "lokijs", "encoding"}, rc.Externals())
	}
}

func TestComposer_Catalog(t *testing.T) {
	custom := NewBackend("rspack", "rspack bundler", "mode", "entry")
	c := New(WithBackend(custom))

	ids := make([]models.BackendID, 0)
	for _, b := range c.Backends() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []models.BackendID{models.BackendWebpack, models.BackendTurbopack, models.BackendEsbuild, "rspack"}, ids)

	b, ok := c.Backend("rspack")
	require.True(t, ok)
	assert.Equal(t, []string{"entry", "mode"}, b.Options())
	assert.True(t, b.Accepts("mode"))
	assert.False(t, b.Accepts("target"))

	rc, err := c.Compose(models.NewFragment("base", "rspack", map[string]any{"mode": "development"}, nil), "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BackendID("rspack"), rc.Backend())
}

func ptr[T any](v T) *T { return &v }
