package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/bundlecompose/internal/compose"
	"github.com/wolfeidau/bundlecompose/internal/hooks"
	"github.com/wolfeidau/bundlecompose/internal/loader"
	"github.com/wolfeidau/bundlecompose/internal/logger"
	"github.com/wolfeidau/bundlecompose/internal/models"
	"github.com/wolfeidau/bundlecompose/internal/telemetry"
	"github.com/wolfeidau/bundlecompose/internal/watch"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"
)

// ComposeCmd resolves a fragment document and prints the result.
type ComposeCmd struct {
	File    string `arg:"" help:"Fragment document (YAML or JSON)" type:"existingfile"`
	Backend string `help:"Target backend (defaults to the document backend)" env:"BUNDLECOMPOSE_BACKEND"`
	Format  string `help:"Output format" default:"json" enum:"json,yaml"`
	Out     string `help:"Write the resolved configuration to this path instead of stdout"`
	Watch   bool   `help:"Recompose whenever the document changes"`
}

func (c *ComposeCmd) Run(ctx context.Context, globals *Globals) error {
	once := func(ctx context.Context) error {
		rc, err := composeDocument(ctx, c.File, models.BackendID(c.Backend))
		if err != nil {
			return err
		}
		return c.write(globals.stdout(), rc)
	}

	if !c.Watch {
		return once(ctx)
	}

	if err := once(ctx); err != nil {
		log.Error().Err(err).Msg("Initial composition failed")
	}
	return watchFile(ctx, c.File, once)
}

func (c *ComposeCmd) write(stdout io.Writer, rc *compose.ResolvedConfig) error {
	var buf bytes.Buffer

	switch c.Format {
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(rc); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rc); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	}

	if c.Out == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(c.Out, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Out, err)
	}
	log.Info().Str("path", c.Out).Str("fingerprint", rc.Fingerprint()).Msg("Wrote resolved configuration")
	return nil
}

// composeDocument loads path and composes it for backend, recording a span
// and metrics for the attempt.
func composeDocument(ctx context.Context, path string, backend models.BackendID) (*compose.ResolvedConfig, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "compose")
	defer span.End()

	span.SetAttributes(attribute.String("fragment.path", path))
	metrics := telemetry.GetMetrics()

	spec, err := loader.New().Load(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		metrics.RecordComposition(ctx, string(backend), 0, 0, errorKind(err))
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	target := backend
	if target == "" {
		target = spec.Base.Backend()
	}
	l := logger.Fields(log.Logger, spec.Base.Name(), target.String())

	rc, err := compose.New(spec.ComposerOptions()...).Compose(spec.Base, backend, spec.Hooks)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "composition failed")
		metrics.RecordComposition(ctx, string(target), 0, 0, errorKind(err))
		return nil, fmt.Errorf("failed to compose %s: %w", path, err)
	}

	span.SetAttributes(
		attribute.String("backend", string(rc.Backend())),
		attribute.String("fingerprint", rc.Fingerprint()),
		attribute.Int("externals", len(rc.Externals())),
	)
	metrics.RecordComposition(ctx, string(rc.Backend()), len(rc.Hooks()), len(rc.Externals()), "")

	l.Debug().
		Strs("sources", rc.Sources()).
		Strs("hooks", rc.Hooks()).
		Strs("externals", rc.Externals()).
		Str("fingerprint", rc.Fingerprint()).
		Msg("Composed configuration")

	return rc, nil
}

func watchFile(ctx context.Context, path string, fn func(context.Context) error) error {
	w, err := watch.New([]string{path}, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("Watching for changes")
	return w.Run(ctx, fn)
}

// errorKind maps a composition failure onto a low-cardinality metric label.
func errorKind(err error) string {
	var (
		unknown  *compose.UnknownBackendError
		option   *compose.UnrecognizedOptionError
		external *compose.InvalidExternalError
		hookErr  *hooks.HookExecutionError
	)

	switch {
	case errors.As(err, &unknown):
		return "unknown_backend"
	case errors.As(err, &option):
		return "unrecognized_option"
	case errors.As(err, &external):
		return "invalid_external"
	case errors.As(err, &hookErr):
		return "hook_execution"
	case errors.Is(err, hooks.ErrDuplicateHook), errors.Is(err, hooks.ErrInvalidHook):
		return "invalid_hook"
	case errors.Is(err, loader.ErrReadDocument),
		errors.Is(err, loader.ErrParseDocument),
		errors.Is(err, loader.ErrInvalidDocument):
		return "document"
	default:
		return "other"
	}
}
