package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "rapih-data-cleaner"
	ServiceVersion = "1.0.0"
	MeterName      = "rapihcli"
)

// Providers holds the initialized OpenTelemetry pieces and the domain
// instruments the pipeline records into.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler

	AnalysesTotal  metric.Int64Counter
	IssuesTotal    metric.Int64Counter
	FixesTotal     metric.Int64Counter
	StageDuration  metric.Float64Histogram
}

// InitializeOTel sets up tracing (stdout exporter) and metrics (Prometheus
// exporter) and registers the domain instruments.
func InitializeOTel(logger *slog.Logger) (*Providers, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.1))),
	)
	otel.SetTracerProvider(tracerProvider)

	metricExporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(metricExporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(MeterName)
	p := &Providers{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Tracer:         tracerProvider.Tracer(MeterName),
		Meter:          meter,
		PrometheusHTTP: promhttp.Handler(),
	}

	if p.AnalysesTotal, err = meter.Int64Counter("rapih_analyses_total",
		metric.WithDescription("Completed analysis runs")); err != nil {
		return nil, fmt.Errorf("failed to create analyses counter: %w", err)
	}
	if p.IssuesTotal, err = meter.Int64Counter("rapih_issues_total",
		metric.WithDescription("Issues detected, by severity")); err != nil {
		return nil, fmt.Errorf("failed to create issues counter: %w", err)
	}
	if p.FixesTotal, err = meter.Int64Counter("rapih_fixes_total",
		metric.WithDescription("Cells modified or rows removed by the cleaner")); err != nil {
		return nil, fmt.Errorf("failed to create fixes counter: %w", err)
	}
	if p.StageDuration, err = meter.Float64Histogram("rapih_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration")); err != nil {
		return nil, fmt.Errorf("failed to create stage histogram: %w", err)
	}

	logger.Info("OpenTelemetry initialized",
		slog.String("service", ServiceName),
		slog.String("version", ServiceVersion))
	return p, nil
}

// RecordStage records one stage duration sample.
func (p *Providers) RecordStage(ctx context.Context, stage string, d time.Duration, success bool) {
	if p == nil || p.StageDuration == nil {
		return
	}
	p.StageDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.Bool("success", success),
		))
}

// Shutdown flushes both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}
