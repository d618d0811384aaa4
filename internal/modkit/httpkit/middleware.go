package httpkit

import (
	"net/http"
	"time"

	"certifica/internal/platform/metrics"
	phttp "certifica/internal/platform/net/http"
	"certifica/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Auth        middleware.AuthPort
	Metrics     *metrics.Metrics
	MaxBody     int64
	CORS        middleware.CORSOptions
	SlowRequest time.Duration
}

// CommonStack returns the /api scope middleware in order: log, metrics, cors, body cap, auth
// Router-wide defaults (request id, recover, timeout) come from middleware.Defaults on the server
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
	}
	if o.Metrics != nil {
		mw = append(mw, o.Metrics.HTTP())
	}
	mw = append(mw, middleware.CORS(o.CORS))
	if o.MaxBody > 0 {
		mw = append(mw, middleware.MaxBody(o.MaxBody))
	}
	if o.Auth != nil {
		mw = append(mw, Auth(o.Auth))
	}
	return mw
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
