package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"storereport/internal/config"
	"storereport/pkg/contracts"
)

const (
	ServiceName = "store-daily-report"
	MeterName   = "storereport"
)

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel initializes tracing and metrics according to the telemetry config.
// Disabled signals fall back to no-op implementations so callers never nil-check.
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", ServiceName),
		slog.String("version", contracts.Version),
		slog.String("environment", cfg.Environment),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Logger: logger,
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

// NoopProviders returns providers whose tracer and meter discard everything
func NoopProviders(logger *slog.Logger) *OTelProviders {
	return &OTelProviders{
		Logger: logger,
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
	}
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up the Prometheus-backed meter provider on a private registry
func initializeMetrics(ctx context.Context, res *resource.Resource, providers *OTelProviders) error {
	registry := prom.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))
	otel.SetMeterProvider(mp)

	providers.Logger.InfoContext(ctx, "Metrics initialized", slog.String("exporter", "prometheus"))
	return nil
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}
