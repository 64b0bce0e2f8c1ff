package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// StoreUnavailable indicates the database file could not be opened or reached
	StoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// QueryFailed indicates a statement failed inside the store
	QueryFailed ErrorCode = "QUERY_FAILED"
	// IngestFailed indicates a data source could not be loaded
	IngestFailed ErrorCode = "INGEST_FAILED"
	// InvalidInput indicates a user-supplied parameter could not be parsed
	InvalidInput ErrorCode = "INVALID_INPUT"
	// NotFound indicates a detail lookup matched no row
	NotFound ErrorCode = "NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents a dashboard error with a stable code and an optional cause
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error     // Underlying error (not exported to JSON)
}

// New creates a new AppError
func New(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// CodeOf extracts the error code from err, or InternalError for plain errors
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return InternalError
}

// IsNotFound reports whether err carries the NotFound code
func IsNotFound(err error) bool {
	return CodeOf(err) == NotFound
}

// hints maps error codes to user-facing suggestions
var hints = map[ErrorCode]string{
	StoreUnavailable: "check that the database file is writable and not locked by another process",
	InvalidInput:     "enter a whole number",
	IngestFailed:     "check the delimiter (;) and header row of the source file",
}

// Hint returns a user-facing suggestion for an error code, if one exists
func Hint(code ErrorCode) string {
	return hints[code]
}
