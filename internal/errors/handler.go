package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Problem types following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeTimeout          = "/errors/timeout"
	TypePayloadTooLarge  = "/errors/payload-too-large"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
)

// Report pipeline problem types
const (
	TypeReportParse  = "/errors/report/parse-failed"
	TypeReportEmpty  = "/errors/report/empty"
	TypeReportRender = "/errors/report/render-failed"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			fmt.Sprintf("The upload exceeds the maximum allowed size of %d bytes", maxBytesErr.Limit),
			r.URL.Path,
		)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// appErrorToProblem maps the report pipeline taxonomy onto HTTP statuses
func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	status := http.StatusInternalServerError
	problemType := TypeInternal

	switch appErr.Type {
	case ErrTypeParsing:
		status, problemType = http.StatusUnprocessableEntity, TypeReportParse
	case ErrTypeEmpty:
		status, problemType = http.StatusUnprocessableEntity, TypeReportEmpty
	case ErrTypeValidation:
		status, problemType = http.StatusBadRequest, TypeValidation
	case ErrTypeRender:
		problemType = TypeReportRender
	}

	problem := NewProblemDetails(
		status,
		problemType,
		http.StatusText(status),
		UserMessage(appErr),
		r.URL.Path,
	).WithExtension("error_code", string(appErr.Type))

	if len(appErr.Context) > 0 {
		problem.WithExtension("context", appErr.Context)
	}

	return problem
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED", "INVALID_REQUEST", "MISSING_UPLOAD":
		problemType = TypeValidation
	case "NOT_FOUND", "DOWNLOAD_EXPIRED":
		problemType = TypeNotFound
	case "PAYLOAD_TOO_LARGE":
		problemType = TypePayloadTooLarge
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethodNotAllowed,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
