package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent    = "component"
	FieldTraceID      = "trace_id"
	FieldSpanID       = "span_id"
	FieldInvocationID = "invocation_id"
	FieldOperation    = "operation"
	FieldEndpoint     = "endpoint"
	FieldMethod       = "method"
	FieldURL          = "url"
	FieldAttempt      = "attempt"
	FieldMaxAttempts  = "max_attempts"
	FieldStatusCode   = "status_code"
	FieldBody         = "body"
	FieldErrorCode    = "error_code"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
	FieldWait         = "wait_ms"
	FieldPath         = "path"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("done", logger.Fields("operation", "list_containers", "count", 3))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// RequestFields creates the fields every outbound engine call is logged with.
func RequestFields(method, endpoint string) map[string]interface{} {
	return map[string]interface{}{
		FieldMethod:   method,
		FieldEndpoint: endpoint,
	}
}

// AttemptFields creates fields describing attempt n of max for an endpoint.
func AttemptFields(endpoint string, attempt, maxAttempts int) map[string]interface{} {
	return map[string]interface{}{
		FieldEndpoint:    endpoint,
		FieldAttempt:     attempt,
		FieldMaxAttempts: maxAttempts,
	}
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
