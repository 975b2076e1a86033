package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/engineconnector/logger"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-Id"

// RequestID ensures every request has an X-Request-Id, echoes it on the
// response and stores it as the invocation id on the request context, so the
// connector's log lines and spans carry the caller's id.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			ctx := logger.ContextWithInvocation(r.Context(), id, "")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
