package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/logger"
)

// Recovery returns middleware that recovers from panics, logs the stack and
// answers with an INTERNAL_ERROR envelope.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithContext(r.Context()).Error("panic recovered", map[string]interface{}{
						logger.FieldError:  fmt.Sprintf("%v", rec),
						"stack":            string(debug.Stack()),
						logger.FieldPath:   r.URL.Path,
						logger.FieldMethod: r.Method,
					})
					writeError(w, errors.Internal(fmt.Errorf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
