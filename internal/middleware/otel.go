package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"storereport/internal/infrastructure"
)

// OTelMiddleware provides OpenTelemetry instrumentation for HTTP requests
type OTelMiddleware struct {
	tracer  trace.Tracer
	metrics *infrastructure.ReportMetrics
	logger  *slog.Logger
}

// NewOTelMiddleware creates a new OpenTelemetry middleware. metrics may be nil.
func NewOTelMiddleware(providers *infrastructure.OTelProviders, metrics *infrastructure.ReportMetrics) *OTelMiddleware {
	return &OTelMiddleware{
		tracer:  providers.Tracer,
		metrics: metrics,
		logger:  providers.Logger.With(slog.String("component", "otel_middleware")),
	}
}

// Handler returns the middleware handler function
func (m *OTelMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := m.tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.URLPath(r.URL.Path),
				semconv.ServerAddressKey.String(r.Host),
				semconv.UserAgentOriginalKey.String(r.UserAgent()),
				semconv.HTTPRequestBodySizeKey.Int64(r.ContentLength),
				semconv.ClientAddressKey.String(r.RemoteAddr),
			),
		)
		defer span.End()

		if sc := span.SpanContext(); sc.IsValid() {
			ctx = infrastructure.WithTraceID(ctx, sc.TraceID().String())
		}
		r = r.WithContext(ctx)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)

		m.metrics.RecordHTTPRequest(ctx, r.Method, route, status, duration)

		span.SetName(fmt.Sprintf("%s %s", r.Method, route))
		span.SetAttributes(
			semconv.HTTPRouteKey.String(route),
			semconv.HTTPResponseStatusCodeKey.Int(status),
			semconv.HTTPResponseBodySizeKey.Int(ww.BytesWritten()),
			attribute.Float64("http.request.duration", duration.Seconds()),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	})
}

// routePattern returns the matched chi pattern so ids in paths do not explode label cardinality
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
