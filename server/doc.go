// Package server is the HTTP gateway in front of the engine connector: a Gin
// engine behind h2c, with a server-level middleware chain and the lifecycle
// hooks of component.Component.
//
// # Routes
//
//   - POST /v1/operations/:name runs one operation. The body is
//     {"config": {...}, "params": {...}}; config keys are laid over the
//     configured default connection. Success answers {"data": ...}; failures
//     answer {"error": {...}} with the HTTP status of the error.
//   - GET /v1/operations lists the supported operation names.
//   - POST /v1/health probes the daemon and always answers 200.
//   - /livez, /readyz, /health, /version and /metrics.
//
// # Middleware
//
// Built-in middleware (server/middleware), applied by ApplyMiddleware:
//
//   - Recovery: panic recovery with an INTERNAL_ERROR envelope
//   - RequestID: X-Request-Id propagation into the invocation id
//   - CORS and BodySizeLimit
//   - Metrics and RequestLogger
//   - APIKeyAuth: bearer keys, probes exempt
//   - RateLimit: per-client sliding window
package server
