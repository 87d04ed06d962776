package middleware

import (
	"net/http"
	"time"
)

type logger interface {
	Info(msg string, args ...any)
}

// statusWriter records the status code and body size a handler wrote,
// since http.ResponseWriter exposes neither
type statusWriter struct {
	http.ResponseWriter

	status int
	size   int
}

func (w *statusWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.status = statusCode
}

// LoggerMiddleware logs one line per request with method, uri, duration,
// status and response size
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Status defaults to 200 when the handler never calls WriteHeader
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			l.Info(
				"got HTTP request",
				"method", r.Method,
				"uri", r.RequestURI,
				"duration", time.Since(start),
				"status", sw.status,
				"size", sw.size,
			)
		})
	}
}
