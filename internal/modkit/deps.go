// Package modkit provides module wiring and the shared dependency bundle
package modkit

import (
	"time"

	"certifica/internal/modkit/repokit"
	"certifica/internal/platform/blob"
	"certifica/internal/platform/config"
	"certifica/internal/platform/logger"
	"certifica/internal/platform/metrics"
	"certifica/internal/platform/queue"
	"certifica/internal/platform/store"
)

// Deps holds the process-wide dependencies handed to every module
// Optional members may be nil; modules check before use
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Blob    blob.Store
	Queue   queue.Queue
	Metrics *metrics.Metrics

	// Clock overrides time.Now in tests
	Clock func() time.Time
}

// Now returns the current UTC time from Clock, falling back to time.Now
func (d Deps) Now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return time.Now().UTC()
}

// WithStore copies the store's backends into d
func (d Deps) WithStore(st *store.Store) Deps {
	if st == nil {
		return d
	}
	if st.PG != nil {
		d.PG = st.PG
	}
	if st.CH != nil {
		d.CH = st.CH
	}
	return d
}
