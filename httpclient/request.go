package httpclient

import (
	"net/http"
	"time"
)

// RequestSpec describes one logical call against the engine API.
type RequestSpec struct {
	// Method is the HTTP method. Defaults to GET.
	Method string
	// Endpoint is the API path without the version prefix, e.g. "/containers/json".
	Endpoint string
	// Query are URL query parameters.
	Query Query
	// Body is JSON-encoded once and sent on every attempt. Nil sends no body.
	Body any
	// RawBody is sent verbatim when Body is nil, e.g. a tar archive.
	RawBody []byte
	// Headers override the derived headers.
	Headers map[string]string
	// Timeout overrides the configured per-attempt timeout.
	Timeout time.Duration
	// UseRegistryAuth adds the X-Registry-Auth header when registry credentials are configured.
	UseRegistryAuth bool
}

func (s RequestSpec) method() string {
	if s.Method == "" {
		return http.MethodGet
	}
	return s.Method
}

// Response is one completed HTTP exchange with the body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is below 400.
func (r *Response) OK() bool {
	return r.StatusCode < 400
}

// Outcome is the classified result of a successful call.
type Outcome struct {
	// StatusCode is the daemon's status.
	StatusCode int
	// Data is the decoded JSON body, or {"result": text} when the body is not JSON.
	Data any
	// Body is the raw response body.
	Body []byte
}

// Map returns Data as a JSON object, or nil when it is something else.
func (o *Outcome) Map() map[string]any {
	if o == nil {
		return nil
	}
	m, _ := o.Data.(map[string]any)
	return m
}
