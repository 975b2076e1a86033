// Package middleware holds the gateway's net/http middleware. Every failure
// it produces is written as the same JSON error envelope the gateway uses.
package middleware
