package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kbukum/engineconnector/observability"
)

// Metrics returns middleware recording gateway request count, duration and
// in-flight requests. Nil metrics disable it.
func Metrics(m *observability.Metrics, service string) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			m.RecordRequestStart(r.Context())
			rec := newRecorder(w)
			defer func() {
				m.RecordRequestEnd(r.Context(), service, r.Method, strconv.Itoa(rec.status), time.Since(start))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
