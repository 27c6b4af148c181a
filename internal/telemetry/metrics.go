package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/bundlecompose"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Composition metrics
	CompositionsTotal      metric.Int64Counter
	CompositionErrorsTotal metric.Int64Counter
	HooksExecutedTotal     metric.Int64Counter
	ExternalsPerConfig     metric.Int64Histogram

	// Build metrics
	BuildsTotal   metric.Int64Counter
	BuildDuration metric.Float64Histogram
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.CompositionsTotal, _ = meter.Int64Counter(
		"bundlecompose.compositions.total",
		metric.WithDescription("Total number of successful compositions"),
		metric.WithUnit("{composition}"),
	)

	m.CompositionErrorsTotal, _ = meter.Int64Counter(
		"bundlecompose.compositions.errors.total",
		metric.WithDescription("Total number of failed compositions by error kind"),
		metric.WithUnit("{error}"),
	)

	m.HooksExecutedTotal, _ = meter.Int64Counter(
		"bundlecompose.hooks.executed.total",
		metric.WithDescription("Total number of override hooks applied"),
		metric.WithUnit("{hook}"),
	)

	m.ExternalsPerConfig, _ = meter.Int64Histogram(
		"bundlecompose.externals.count",
		metric.WithDescription("Number of externals in each resolved configuration"),
		metric.WithUnit("{module}"),
	)

	m.BuildsTotal, _ = meter.Int64Counter(
		"bundlecompose.builds.total",
		metric.WithDescription("Total number of esbuild builds by outcome"),
		metric.WithUnit("{build}"),
	)

	m.BuildDuration, _ = meter.Float64Histogram(
		"bundlecompose.builds.duration",
		metric.WithDescription("Duration of esbuild builds"),
		metric.WithUnit("ms"),
	)

	return m
}

// RecordComposition records the outcome of a single composition.
func (m *Metrics) RecordComposition(ctx context.Context, backend string, hooks, externals int, errKind string) {
	attrs := metric.WithAttributes(attribute.String("backend", backend))
	if errKind != "" {
		m.CompositionErrorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("kind", errKind),
		))
		return
	}
	m.CompositionsTotal.Add(ctx, 1, attrs)
	m.HooksExecutedTotal.Add(ctx, int64(hooks), attrs)
	m.ExternalsPerConfig.Record(ctx, int64(externals), attrs)
}

// RecordBuild records an esbuild invocation.
func (m *Metrics) RecordBuild(ctx context.Context, durationMs float64, failed bool) {
	outcome := cond(failed, "failed", "succeeded")
	m.BuildsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.BuildDuration.Record(ctx, durationMs, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
