// Package logger provides structured logging for the engine connector
// using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and the field keys used across the request pipeline (endpoint,
// attempt, status_code, invocation_id).
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// Usage:
//
//	log := logger.WithComponent("httpclient")
//	log.Warn("retrying", logger.AttemptFields("/info", 1, 3))
package logger
