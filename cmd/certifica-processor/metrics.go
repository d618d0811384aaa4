package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"certifica/internal/platform/logger"
	"certifica/internal/platform/metrics"
)

// serveMetrics exposes the processor's counters until ctx is done
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Named("metrics").Error().Err(err).Str("addr", addr).Msg("metrics listener failed")
		}
	}()
}
