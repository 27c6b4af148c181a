package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/bundlecompose/cmd/cli/internal/commands"
	"github.com/wolfeidau/bundlecompose/internal/logger"
	"github.com/wolfeidau/bundlecompose/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Compose  commands.ComposeCmd  `cmd:"" help:"Compose a fragment document into a resolved configuration"`
		Build    commands.BuildCmd    `cmd:"" help:"Compose for esbuild and run the build"`
		Backends commands.BackendsCmd `cmd:"" help:"List known bundler backends"`
		Debug    bool                 `help:"Enable debug mode." env:"BUNDLECOMPOSE_DEBUG"`
		Tracing  bool                 `help:"Export traces and metrics over OTLP." env:"BUNDLECOMPOSE_TRACING"`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("bundlecompose"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	if cli.Tracing {
		shutdown, err := telemetry.InitTelemetry(ctx, "bundlecompose", version)
		cmd.FatalIfErrorf(err)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("Telemetry shutdown failed")
			}
		}()
	}

	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
