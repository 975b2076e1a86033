// Package errors provides the connector's uniform error object.
//
// Every terminal condition surfaces as an *AppError whose Code names the
// failure kind (configuration, transport, daemon 4xx/5xx) and whose Message
// is safe to show to an operator. Daemon status codes are preserved in
// HTTPStatus so a gateway can mirror them.
package errors
