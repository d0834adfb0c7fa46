package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ReportMetrics are the instruments recorded by the report pipeline and HTTP layer
type ReportMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	ReportsGenerated   metric.Int64Counter
	ReportFailures     metric.Int64Counter
	RowsNormalized     metric.Int64Counter
	RowsDropped        metric.Int64Counter
	GenerationDuration metric.Float64Histogram
}

// CreateReportMetrics creates application-specific metrics
func CreateReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	reportsGenerated, err := meter.Int64Counter(
		"reports_generated_total",
		metric.WithDescription("Total number of daily report sheets generated"),
	)
	if err != nil {
		return nil, err
	}

	reportFailures, err := meter.Int64Counter(
		"report_failures_total",
		metric.WithDescription("Total number of aborted report runs by pipeline stage"),
	)
	if err != nil {
		return nil, err
	}

	rowsNormalized, err := meter.Int64Counter(
		"report_rows_normalized_total",
		metric.WithDescription("Total number of shift records kept after normalization"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"report_rows_dropped_total",
		metric.WithDescription("Total number of source rows dropped for lacking a store name"),
	)
	if err != nil {
		return nil, err
	}

	generationDuration, err := meter.Float64Histogram(
		"report_generation_duration_seconds",
		metric.WithDescription("End-to-end report generation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &ReportMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		ReportsGenerated:    reportsGenerated,
		ReportFailures:      reportFailures,
		RowsNormalized:      rowsNormalized,
		RowsDropped:         rowsDropped,
		GenerationDuration:  generationDuration,
	}, nil
}

// RecordGeneration records one finished pipeline run
func (m *ReportMetrics) RecordGeneration(ctx context.Context, duration time.Duration, kept, dropped int) {
	if m == nil {
		return
	}
	m.ReportsGenerated.Add(ctx, 1)
	m.RowsNormalized.Add(ctx, int64(kept))
	m.RowsDropped.Add(ctx, int64(dropped))
	m.GenerationDuration.Record(ctx, duration.Seconds())
}

// RecordFailure records an aborted run at the given stage
func (m *ReportMetrics) RecordFailure(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.ReportFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordHTTPRequest records one served HTTP request
func (m *ReportMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
