package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration and request-shaping errors (terminal)
const (
	// ErrCodeConfig indicates missing or malformed connection configuration.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
	// ErrCodeURLBuild indicates the endpoint URL could not be assembled.
	ErrCodeURLBuild ErrorCode = "URL_BUILD_ERROR"
	// ErrCodeInvalidInput indicates an operation parameter is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required operation parameter is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUnsupportedOperation indicates the operation name is not registered.
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"
)

// Transport errors (retryable while attempts remain)
const (
	// ErrCodeTimeout indicates an attempt timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeConnectionFailed indicates the daemon could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeRequestFailed indicates an unexpected failure while performing an attempt.
	ErrCodeRequestFailed ErrorCode = "REQUEST_FAILED"
	// ErrCodeNoResponse indicates the attempt loop finished without a response.
	ErrCodeNoResponse ErrorCode = "NO_RESPONSE"
	// ErrCodeRateLimited indicates the caller gave up waiting for rate-limit admission.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeBusy indicates the connector's concurrency cap is exhausted.
	ErrCodeBusy ErrorCode = "CONNECTOR_BUSY"
)

// Daemon client errors (4xx, never retried)
const (
	// ErrCodeBadRequest maps HTTP 400.
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	// ErrCodeUnauthorized maps HTTP 401.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden maps HTTP 403.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeNotFound maps HTTP 404.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeConflict maps HTTP 409.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Daemon server errors (5xx, retried then terminal)
const (
	// ErrCodeEngineInternal maps HTTP 500.
	ErrCodeEngineInternal ErrorCode = "ENGINE_INTERNAL_ERROR"
	// ErrCodeEngineUnavailable maps HTTP 503.
	ErrCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	// ErrCodeServerError maps any other 5xx status.
	ErrCodeServerError ErrorCode = "SERVER_ERROR"
)

// Everything else
const (
	// ErrCodeHTTP is an unrecognised, non-success status code.
	ErrCodeHTTP ErrorCode = "HTTP_ERROR"
	// ErrCodeInternal indicates a bug or unexpected state inside the connector.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// retryableCodes marks the transient kinds. These are retried by the attempt
// loop; once surfaced to a caller they describe a failure that may succeed later.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:           true,
	ErrCodeConnectionFailed:  true,
	ErrCodeRequestFailed:     true,
	ErrCodeRateLimited:       true,
	ErrCodeBusy:              true,
	ErrCodeEngineInternal:    true,
	ErrCodeEngineUnavailable: true,
	ErrCodeServerError:       true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
