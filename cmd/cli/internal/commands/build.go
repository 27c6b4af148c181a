package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/bundlecompose/internal/assets"
	"github.com/wolfeidau/bundlecompose/internal/models"
	"github.com/wolfeidau/bundlecompose/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BuildCmd composes a document for esbuild and runs the build.
type BuildCmd struct {
	File        string `arg:"" help:"Fragment document (YAML or JSON)" type:"existingfile"`
	WorkDir     string `help:"Directory entry points and outputs are resolved against" default:"." type:"existingdir" env:"BUNDLECOMPOSE_WORKDIR"`
	Precompress bool   `help:"Write zstd compressed copies of each output" default:"false" env:"BUNDLECOMPOSE_PRECOMPRESS"`
	Manifest    string `help:"Manifest file name written into the output directory (empty disables)" default:"manifest.json"`
	Watch       bool   `help:"Rebuild whenever the document changes"`
}

func (b *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	workDir, err := filepath.Abs(b.WorkDir)
	if err != nil {
		return fmt.Errorf("failed to resolve work dir: %w", err)
	}

	cfg := assets.DefaultConfig()
	cfg.WorkDir = workDir
	cfg.Precompress = b.Precompress
	cfg.ManifestName = b.Manifest
	pipeline := assets.New(cfg)

	once := func(ctx context.Context) error {
		return b.build(ctx, globals, pipeline)
	}

	if !b.Watch {
		return once(ctx)
	}

	if err := once(ctx); err != nil {
		log.Error().Err(err).Msg("Initial build failed")
	}
	return watchFile(ctx, b.File, once)
}

func (b *BuildCmd) build(ctx context.Context, globals *Globals, pipeline *assets.Pipeline) error {
	runID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate run id: %w", err)
	}
	l := log.With().Str("run_id", runID.String()).Logger()

	ctx, span := telemetry.Tracer().Start(ctx, "build")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", runID.String()))

	rc, err := composeDocument(ctx, b.File, models.BackendEsbuild)
	if err != nil {
		return err
	}

	started := time.Now()
	res, err := pipeline.Build(rc)
	elapsed := time.Since(started)
	telemetry.GetMetrics().RecordBuild(ctx, float64(elapsed.Milliseconds()), err != nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return fmt.Errorf("failed to build %s: %w", b.File, err)
	}

	l.Info().
		Int("outputs", len(res.Outputs)).
		Dur("duration", elapsed).
		Str("fingerprint", res.Fingerprint).
		Msg("Build complete")

	report, err := pipeline.CheckExternals(rc.Externals())
	if err != nil {
		return fmt.Errorf("failed to check externals: %w", err)
	}
	for _, id := range report.Unused {
		l.Warn().Str("external", id).Msg("Declared external is never imported")
	}
	for _, path := range report.Undeclared {
		l.Debug().Str("import", path).Msg("External import not declared in configuration")
	}
	span.SetAttributes(attribute.Int("externals.unused", len(report.Unused)))

	out := globals.stdout()
	for _, o := range res.Outputs {
		fmt.Fprintf(out, "%s\t%d bytes\tcrc64nvme:%s\n", o.Path, o.Bytes, o.Checksum)
	}
	return nil
}
