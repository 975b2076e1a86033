package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/engineconnector/logger"
)

// probePaths are polled by orchestrators and scrapers and never logged.
var probePaths = map[string]bool{
	"/livez":   true,
	"/readyz":  true,
	"/health":  true,
	"/metrics": true,
}

// RequestLogger logs one line per request: 5xx at error, 4xx at warn and
// everything else at debug. Probe paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newRecorder(w)
			next.ServeHTTP(rec, r)

			fields := logger.MergeWithDuration(logger.Fields(
				logger.FieldMethod, r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatusCode, rec.status,
				"response_size", rec.written,
			), time.Since(start))

			l := log.WithContext(r.Context())
			switch {
			case rec.status >= 500:
				l.Error("request completed", fields)
			case rec.status >= 400:
				l.Warn("request completed", fields)
			default:
				l.Debug("request completed", fields)
			}
		})
	}
}
