// Package service implements the certificate lifecycle: intake, validation, retrieval and deletion
package service

import (
	"context"
	"time"

	"certifica/internal/modkit/repokit"
	"certifica/internal/platform/blob"
	"certifica/internal/platform/metrics"
	"certifica/internal/platform/queue"
	pstrings "certifica/internal/platform/strings"
	adom "certifica/internal/services/audit/domain"
	"certifica/internal/services/certificates/domain"
	"certifica/internal/services/certificates/repo"
)

// View URL modes
const (
	ViewStored    = "stored"
	ViewPresigned = "presigned"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Config tunes the pipeline
type Config struct {
	MaxUploadBytes int64
	SniffContent   bool
	ViewURLMode    string
	PresignTTL     time.Duration
	Topic          string
}

func (c Config) withDefaults() Config {
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 15 << 20
	}
	if c.ViewURLMode == "" {
		c.ViewURLMode = ViewStored
	}
	if c.PresignTTL <= 0 {
		c.PresignTTL = 15 * time.Minute
	}
	if c.Topic == "" {
		c.Topic = "certificate-processing"
	}
	return c
}

// Options carries the collaborators
type Options struct {
	// Blob is required
	Blob blob.Store

	// Publisher is required
	Publisher queue.Publisher

	// Audit is optional; events are dropped when nil
	Audit adom.Sink

	// Metrics is optional
	Metrics *metrics.Metrics

	// Now is optional; defaults to time.Now in UTC
	Now func() time.Time

	Config Config
}

// Svc implements the service port
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	blob   blob.Store
	pub    queue.Publisher
	audit  adom.Sink
	m      *metrics.Metrics
	now    func() time.Time
	cfg    Config
}

var _ Service = (*Svc)(nil)

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("certificates.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("certificates.Service requires a non nil Repo binder")
	}
	if opt.Blob == nil {
		panic("certificates.Service requires a non nil blob.Store")
	}
	if opt.Publisher == nil {
		panic("certificates.Service requires a non nil queue.Publisher")
	}

	now := opt.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	sink := opt.Audit
	if sink == nil {
		sink = nopSink{}
	}

	return &Svc{
		db:     db,
		binder: binder,
		blob:   opt.Blob,
		pub:    opt.Publisher,
		audit:  sink,
		m:      opt.Metrics,
		now:    now,
		cfg:    opt.Config.withDefaults(),
	}
}

// Config returns the effective configuration
func (s *Svc) Config() Config { return s.cfg }

func (s *Svc) repo() repo.Repo { return repokit.MustBind(s.binder, s.db) }

type nopSink struct{}

func (nopSink) Record(context.Context, adom.Event) {}

func (s *Svc) record(ctx context.Context, kind adom.Kind, c domain.Certificate, actor string) {
	s.audit.Record(ctx, adom.Event{
		Kind:          kind,
		CertificateID: c.ID,
		Actor:         actor,
		Status:        string(c.Status),
		Reason:        pstrings.Deref(c.RejectionReason),
		At:            s.now(),
	})
}

func (s *Svc) submission(outcome string) {
	if s.m != nil {
		s.m.Submissions.WithLabelValues(outcome).Inc()
	}
}
