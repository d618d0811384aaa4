// Package service verifies uploaded certificates off the request path
// and republishes the ones whose publish never landed
package service

import (
	"context"
	"time"

	"certifica/internal/modkit/repokit"
	"certifica/internal/platform/blob"
	"certifica/internal/platform/metrics"
	"certifica/internal/platform/queue"
	adom "certifica/internal/services/audit/domain"
	crepo "certifica/internal/services/certificates/repo"
	pdom "certifica/internal/services/processor/domain"
	"certifica/internal/services/processor/guardrails"
)

// Config controls the consumer and the sweep
type Config struct {
	Topic      string
	SweepCron  string
	StaleAfter time.Duration
	SweepBatch int
}

func (c Config) withDefaults() Config {
	if c.Topic == "" {
		c.Topic = "certificate-processing"
	}
	if c.SweepCron == "" {
		c.SweepCron = "@every 1m"
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 5 * time.Minute
	}
	if c.SweepBatch <= 0 {
		c.SweepBatch = 100
	}
	return c
}

// Options carries the collaborators the processor needs
type Options struct {
	Blob      blob.Store
	Publisher queue.Publisher
	Consumer  queue.Consumer
	Audit     adom.Sink
	Metrics   *metrics.Metrics
	Now       func() time.Time

	// Lease keeps sweeps single-flight across processor instances; nil runs unguarded
	Lease guardrails.Lease

	Config Config
}

// Svc implements the processor ports
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[crepo.Repo]
	blob   blob.Store
	pub    queue.Publisher
	sub    queue.Consumer
	audit  adom.Sink
	m      *metrics.Metrics
	now    func() time.Time
	lease  guardrails.Lease
	cfg    Config
}

var _ pdom.RunnerPort = (*Svc)(nil)

// New constructs the processor service
func New(db repokit.TxRunner, binder repokit.Binder[crepo.Repo], opt Options) *Svc {
	if db == nil {
		panic("processor.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("processor.Service requires a non nil Repo binder")
	}
	if opt.Blob == nil {
		panic("processor.Service requires a non nil blob store")
	}
	if opt.Publisher == nil {
		panic("processor.Service requires a non nil publisher")
	}
	if opt.Audit == nil {
		opt.Audit = nopSink{}
	}
	if opt.Now == nil {
		opt.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Svc{
		db:     db,
		binder: binder,
		blob:   opt.Blob,
		pub:    opt.Publisher,
		sub:    opt.Consumer,
		audit:  opt.Audit,
		m:      opt.Metrics,
		now:    opt.Now,
		lease:  opt.Lease,
		cfg:    opt.Config.withDefaults(),
	}
}

// Config returns the effective configuration
func (s *Svc) Config() Config { return s.cfg }

func (s *Svc) repo() crepo.Repo { return repokit.MustBind(s.binder, s.db) }

type nopSink struct{}

func (nopSink) Record(context.Context, adom.Event) {}

func (s *Svc) processed(outcome string) {
	if s.m != nil {
		s.m.Processed.WithLabelValues(outcome).Inc()
	}
}
