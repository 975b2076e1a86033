package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the single error type surfaced by the connector. Every terminal
// condition, from a missing server address to an exhausted retry budget, is
// reported as an AppError carrying a kind (Code) and a human-readable message.
type AppError struct {
	// Code is a machine-readable error kind.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the daemon's status code, or the status a gateway should answer with.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Configuration / input ---

// Config creates an error for missing or malformed connection configuration.
func Config(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConfig, Message: reason,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingParameter creates a config error for a required configuration key.
func MissingParameter(name string) *AppError {
	return Config(fmt.Sprintf("Missing required parameter: %s", name)).
		WithDetail("parameter", name)
}

// URLBuild creates an error for an endpoint URL that could not be assembled.
func URLBuild(endpoint string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeURLBuild, Message: fmt.Sprintf("Cannot build URL for %s", endpoint),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"endpoint": endpoint}, Cause: cause,
	}
}

// InvalidInput creates a new AppError for an invalid operation parameter.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for aggregated validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for missing required operation inputs.
func MissingField(fields ...string) *AppError {
	label := "input"
	if len(fields) > 1 {
		label = "inputs"
	}
	msg := fmt.Sprintf("Missing required %s: %s", label, strings.Join(fields, ", "))
	return &AppError{
		Code: ErrCodeMissingField, Message: msg,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"fields": fields},
	}
}

// UnsupportedOperation creates an error for an unknown operation name.
func UnsupportedOperation(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedOperation, Message: fmt.Sprintf("Unsupported operation: %s", name),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"operation": name},
	}
}

// --- Transport ---

// Timeout creates an error for an endpoint that kept timing out.
func Timeout(endpoint string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("Timeout connecting to engine API: %s", endpoint),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"endpoint": endpoint},
	}
}

// ConnectionFailed creates an error for a daemon that could not be reached.
func ConnectionFailed(endpoint string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Cannot connect to engine API: %s", endpoint),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"endpoint": endpoint},
	}
}

// RequestFailed creates an error for an unexpected failure during an attempt.
func RequestFailed(endpoint string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRequestFailed, Message: fmt.Sprintf("Error invoking %s", endpoint),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"endpoint": endpoint}, Cause: cause,
	}
}

// NoResponse creates an error for an attempt loop that never produced a response.
func NoResponse(attempts int) *AppError {
	return &AppError{
		Code: ErrCodeNoResponse, Message: fmt.Sprintf("No response received after %d attempts", attempts),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"attempts": attempts},
	}
}

// RateLimited creates an error for a caller that stopped waiting for admission.
func RateLimited(cause error) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Rate limit wait aborted",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true, Cause: cause,
	}
}

// Busy creates an error for an invocation rejected by a full bulkhead.
func Busy(name string, maxConcurrent int) *AppError {
	return &AppError{
		Code: ErrCodeBusy, Message: fmt.Sprintf("Connector %s is busy (%d invocations in flight)", name, maxConcurrent),
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"max_concurrent": maxConcurrent},
	}
}

// --- Daemon responses ---

// BadRequest maps a 400 response; the daemon's body is echoed.
func BadRequest(body string) *AppError {
	return &AppError{
		Code: ErrCodeBadRequest, Message: fmt.Sprintf("Bad Request: %s", body),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// Unauthorized maps a 401 response. The message is fixed so credentials are never echoed.
func Unauthorized() *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: "Unauthorized: Check your authentication credentials",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// Forbidden maps a 403 response.
func Forbidden() *AppError {
	return &AppError{
		Code: ErrCodeForbidden, Message: "Forbidden: Insufficient permissions for this operation",
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// NotFound maps a 404 response; the requested endpoint is echoed.
func NotFound(endpoint string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("Resource not found: %s", endpoint),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"endpoint": endpoint},
	}
}

// Conflict maps a 409 response; the daemon's body is echoed.
func Conflict(body string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: fmt.Sprintf("Conflict: %s", body),
		HTTPStatus: http.StatusConflict, Retryable: false,
	}
}

// EngineInternal maps a 500 response.
func EngineInternal(body string) *AppError {
	return &AppError{
		Code: ErrCodeEngineInternal, Message: fmt.Sprintf("Engine internal error: %s", body),
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
	}
}

// EngineUnavailable maps a 503 response.
func EngineUnavailable(body string) *AppError {
	return &AppError{
		Code: ErrCodeEngineUnavailable, Message: fmt.Sprintf("Engine unavailable: %s", body),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
	}
}

// UnexpectedStatus maps any other non-success status. 5xx codes keep the server-error kind.
func UnexpectedStatus(status int, body string) *AppError {
	code := ErrCodeHTTP
	if status >= 500 && status < 600 {
		code = ErrCodeServerError
	}
	return &AppError{
		Code: code, Message: fmt.Sprintf("HTTP %d: %s", status, body),
		HTTPStatus: status, Retryable: IsRetryableCode(code),
	}
}

// Internal creates a new AppError for an internal connector error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred inside the connector.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
