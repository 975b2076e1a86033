package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/kbukum/engineconnector/errors"
)

// Middleware wraps an http.Handler with additional behavior. It is applied
// at the server handler level so it covers every route.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// writeError writes the gateway error envelope for appErr.
func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}
