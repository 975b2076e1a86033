package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/kbukum/engineconnector/errors"
)

// APIKeyConfig configures gateway authentication.
type APIKeyConfig struct {
	// Keys are the accepted bearer keys. No keys disables the check.
	Keys []string
	// SkipPaths are exact paths that bypass authentication (probes, metrics).
	SkipPaths []string
}

// APIKeyAuth returns middleware requiring "Authorization: Bearer <key>" with
// one of the configured keys. Failures answer with an UNAUTHORIZED envelope
// that never echoes the presented key.
func APIKeyAuth(cfg APIKeyConfig) Middleware {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}
	return func(next http.Handler) http.Handler {
		if len(cfg.Keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || !keyMatches(strings.TrimSpace(token), cfg.Keys) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="engine-connector"`)
				writeError(w, errors.Unauthorized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func keyMatches(token string, keys []string) bool {
	matched := 0
	for _, k := range keys {
		matched |= subtle.ConstantTimeCompare([]byte(token), []byte(k))
	}
	return token != "" && matched == 1
}
