package module

import (
	"time"

	"certifica/internal/platform/config"
)

// Options for the processor module
type Options struct {
	Concurrency int
	SweepCron   string
	StaleAfter  time.Duration
	SweepBatch  int
	Leases      bool
	Topic       string
}

// FromConfig fills options from environment
// PROCESSOR_CONCURRENCY (default 4) bounds in-flight handlers
// PROCESSOR_SWEEP_CRON (default "@every 1m") schedules the reconciliation sweep
// PROCESSOR_STALE_AFTER (default 5m) is how old an unqueued PENDING row must be to be republished
// PROCESSOR_SWEEP_BATCH (default 100) caps one sweep
// PROCESSOR_LEASES (default true) takes a pg advisory lock around each sweep
func FromConfig(cfg config.Conf) Options {
	p := cfg.Prefix("PROCESSOR_")
	return Options{
		Concurrency: p.MayInt("CONCURRENCY", 4),
		SweepCron:   p.MayString("SWEEP_CRON", "@every 1m"),
		StaleAfter:  p.MayDuration("STALE_AFTER", 5*time.Minute),
		SweepBatch:  p.MayInt("SWEEP_BATCH", 100),
		Leases:      p.MayBool("LEASES", true),
		Topic:       cfg.Prefix("QUEUE_").MayString("TOPIC", "certificate-processing"),
	}
}
