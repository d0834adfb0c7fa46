package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	apierrors "storereport/internal/errors"
	"storereport/internal/infrastructure"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestID middleware generates a unique request ID for each request.
// The id is stored under chi's request id key so middleware.GetReqID and
// the error handler see it. This should be the FIRST middleware in the chain.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, requestID)
		ctx = infrastructure.WithTraceID(ctx, requestID)

		// An active span's trace id wins over the request id
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			ctx = infrastructure.WithTraceID(ctx, span.SpanContext().TraceID().String())
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from context, falling back to the trace ID
func GetRequestID(ctx context.Context) string {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return reqID
	}
	return infrastructure.GetTraceID(ctx)
}

// StructuredLogger provides Chi-compatible structured logging middleware using slog.
// This should come AFTER RequestID and RealIP middlewares.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			reqLogger := logger
			if traceID := GetRequestID(ctx); traceID != "" {
				reqLogger = logger.With(slog.String("trace_id", traceID))
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLogger.DebugContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.Int64("content_length", r.ContentLength),
			)

			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			reqLogger.Log(ctx, level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recoverer recovers from panics and answers with a problem document
func Recoverer(errorHandler *apierrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					errorHandler.HandlePanic(w, r, rvr)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter throttles report generation. One token bucket is shared by all
// clients; the service is used by a handful of store operators.
type RateLimiter struct {
	limiter      *rate.Limiter
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewRateLimiter creates a new rate limiter with logging
func NewRateLimiter(rps float64, burst int, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "rate_limiter")),
	}
}

// Handler implements rate limiting middleware
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reservation := rl.limiter.Reserve()
		if !reservation.OK() || reservation.Delay() > 0 {
			retryAfter := reservation.Delay()
			reservation.Cancel()

			rl.logger.WarnContext(r.Context(), "rate limit exceeded",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Duration("retry_after", retryAfter),
			)

			seconds := int(retryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			rl.errorHandler.HandleError(w, r, apierrors.ErrRateLimitExceeded)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// MaxBodySize caps request bodies; reads past the limit fail with *http.MaxBytesError
func MaxBodySize(limit int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds security-related headers
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; form-action 'self'")

		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// RealIP extracts the real client IP using Chi's implementation
func RealIP(next http.Handler) http.Handler {
	return middleware.RealIP(next)
}
