// Package errors defines the typed errors shared by every layer. Each kind
// carries the HTTP status it maps to, so handlers never switch on messages.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Chart computation
	ErrorTypeDataNotFound  ErrorType = "DATA_NOT_FOUND"
	ErrorTypeInvalidInput  ErrorType = "INVALID_INPUT"
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"
	ErrorTypeAmbiguousHour ErrorType = "AMBIGUOUS_HOUR"

	// Serving
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeTimeout     ErrorType = "TIMEOUT"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
	ErrorTypeDatabase    ErrorType = "DATABASE"
)

var statusByType = map[ErrorType]int{
	ErrorTypeDataNotFound:  http.StatusNotFound,
	ErrorTypeInvalidInput:  http.StatusBadRequest,
	ErrorTypeConfiguration: http.StatusInternalServerError,
	ErrorTypeAmbiguousHour: http.StatusInternalServerError,
	ErrorTypeInternal:      http.StatusInternalServerError,
	ErrorTypeTimeout:       http.StatusGatewayTimeout,
	ErrorTypeUnavailable:   http.StatusServiceUnavailable,
	ErrorTypeDatabase:      http.StatusInternalServerError,
}

// AppError is an error with a kind, an HTTP status and optional details for
// the response body.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func newAppError(t ErrorType, message string) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		HTTPStatus: statusByType[t],
		StackTrace: callers(),
	}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode sets a machine-readable code for clients.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds one entry to the response details.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// callers skips itself, newAppError and the exported constructor.
func callers() string {
	var pcs [32]uintptr
	n := runtime.Callers(4, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return b.String()
}

// NewDataNotFoundError reports a missing almanac record. It is fatal for the
// request and never retried.
func NewDataNotFoundError(message string) *AppError {
	return newAppError(ErrorTypeDataNotFound, message)
}

func NewInvalidInputError(message string) *AppError {
	return newAppError(ErrorTypeInvalidInput, message)
}

// NewConfigurationError reports a defect in static data or settings found at
// startup.
func NewConfigurationError(message string) *AppError {
	return newAppError(ErrorTypeConfiguration, message)
}

// NewAmbiguousHourError reports a birth time outside every two-hour window.
func NewAmbiguousHourError(message string) *AppError {
	return newAppError(ErrorTypeAmbiguousHour, message)
}

func NewInternalError(message string) *AppError {
	return newAppError(ErrorTypeInternal, message)
}

// NewTimeoutError reports an almanac call that outlived its deadline.
func NewTimeoutError(operation string) *AppError {
	return newAppError(ErrorTypeTimeout, fmt.Sprintf("operation '%s' timed out", operation))
}

// NewUnavailableError reports a dependency that refuses work, such as an
// almanac behind an open breaker.
func NewUnavailableError(service string) *AppError {
	return newAppError(ErrorTypeUnavailable, fmt.Sprintf("service '%s' is unavailable", service))
}

func NewDatabaseError(operation string, err error) *AppError {
	return newAppError(ErrorTypeDatabase, fmt.Sprintf("database operation '%s' failed", operation)).WithCause(err)
}

// IsAppError reports whether err's chain holds an AppError.
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// GetAppError returns the first AppError in err's chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

func IsNotFound(err error) bool { return IsType(err, ErrorTypeDataNotFound) }

func IsInvalidInput(err error) bool { return IsType(err, ErrorTypeInvalidInput) }

func IsConfiguration(err error) bool { return IsType(err, ErrorTypeConfiguration) }

// Wrap prefixes an AppError's message with context, keeping its kind. The
// result is a copy, so err itself is never changed. When err wraps the
// AppError, the copy's cause is err and the outer chain stays reachable. Any
// other error becomes INTERNAL with err as its cause.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	appErr := GetAppError(err)
	if appErr == nil {
		return NewInternalError(message).WithCause(err)
	}

	cp := *appErr
	cp.Message = message + ": " + appErr.Message
	if appErr.Details != nil {
		cp.Details = make(map[string]interface{}, len(appErr.Details))
		for k, v := range appErr.Details {
			cp.Details[k] = v
		}
	}
	if err != error(appErr) {
		cp.Cause = err
	}
	return &cp
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
