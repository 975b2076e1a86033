package middleware

import "net/http"

// recorder captures the status code and body size written by a handler.
type recorder struct {
	http.ResponseWriter
	status  int
	written int64
	started bool
}

func newRecorder(w http.ResponseWriter) *recorder {
	return &recorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *recorder) WriteHeader(code int) {
	if !rec.started {
		rec.status, rec.started = code, true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	rec.started = true
	n, err := rec.ResponseWriter.Write(b)
	rec.written += int64(n)
	return n, err
}

// Flush forwards to the underlying writer when it supports flushing.
func (rec *recorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the original writer.
func (rec *recorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }
