// Package middleware holds the HTTP middleware stack: chi adapters and in-house handlers
package middleware

import (
	"net/http"
	"time"

	"certifica/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests taking at least Slow at warn level; 0 disables it
	Slow time.Duration
	// Skip lists exact paths that are never logged, e.g. /health and /metrics
	Skip []string
}

// StatusWriter records the status and byte count written through it
type StatusWriter struct {
	http.ResponseWriter
	Status int
	Bytes  int
}

// WrapStatus returns w wrapped so the final status can be read after next runs
func WrapStatus(w http.ResponseWriter) *StatusWriter {
	return &StatusWriter{ResponseWriter: w, Status: http.StatusOK}
}

func (sw *StatusWriter) WriteHeader(code int) {
	sw.Status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *StatusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.Bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (sw *StatusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

// RoutePattern returns the matched chi pattern, falling back to the raw path
func RoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// AccessLogZerolog logs one line per request through the request-scoped logger
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(opt.Skip))
	for _, p := range opt.Skip {
		skip[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			sw := WrapStatus(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case sw.Status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn().Bool("slow", true)
			}
			evt.Int("status", sw.Status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("route", RoutePattern(r)).
				Str("path", r.URL.Path).
				Int("bytes", sw.Bytes).
				Msg("request done")
		})
	}
}
