package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failed report run
type ErrorType string

const (
	// ErrTypeParsing: the POS export could not be read or has no recognisable columns.
	ErrTypeParsing ErrorType = "PARSING"
	// ErrTypeEmpty: the export parsed but no shift survived cleaning.
	ErrTypeEmpty ErrorType = "EMPTY"
	// ErrTypeValidation: the upload itself was rejected before parsing.
	ErrTypeValidation ErrorType = "VALIDATION"
	// ErrTypeRender: writing the report sheet or serializing the workbook failed.
	ErrTypeRender ErrorType = "RENDER"
)

// ErrEmptyResult is the cause carried by every ErrTypeEmpty error.
var ErrEmptyResult = errors.New("no usable shift rows after cleaning")

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewEmptyResultError reports an upload with nothing to render
func NewEmptyResultError(sourceRows int) *AppError {
	return NewAppError(ErrTypeEmpty, "清理後沒有可用的班別資料", ErrEmptyResult).
		WithContext("source_rows", sourceRows)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewRenderError creates a report rendering error
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// UserMessage returns the operator-facing text for a failed run.
// AppErrors carry their own message; anything else is reported generically.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeParsing:
			return "檔案解析失敗：" + appErr.Message
		case ErrTypeEmpty, ErrTypeValidation:
			return appErr.Message
		case ErrTypeRender:
			return "報表產生失敗：" + appErr.Message
		}
		return appErr.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "發生未預期的錯誤，請重新上傳"
}
