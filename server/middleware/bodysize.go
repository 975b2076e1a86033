package middleware

import (
	"fmt"
	"net/http"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/util"
)

// defaultMaxBodySize leaves room for base64 build contexts and archives.
const defaultMaxBodySize = 64 << 20

// BodySizeLimit caps request bodies at maxSize ("64MB", "512KB", ...).
// A declared Content-Length over the cap is rejected with 413 up front;
// otherwise reads past the cap fail with *http.MaxBytesError.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("Request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
