// Package service implements audit sinks
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"certifica/internal/modkit/repokit"
	"certifica/internal/platform/logger"
	"certifica/internal/services/audit/domain"
)

// Nop drops every event
type Nop struct{}

// Record does nothing
func (Nop) Record(context.Context, domain.Event) {}

// Config controls the ClickHouse sink
type Config struct {
	Table   string
	Timeout time.Duration
}

// ClickHouse appends events to a MergeTree table
type ClickHouse struct {
	ch  repokit.Clickhouse
	cfg Config
	log *logger.Logger
}

// NewClickHouse panics on a nil connection; callers fall back to Nop instead
func NewClickHouse(ch repokit.Clickhouse, cfg Config) *ClickHouse {
	if ch == nil {
		panic("audit.ClickHouse requires a non-nil clickhouse seam")
	}
	if cfg.Table == "" {
		cfg.Table = "certificate_events"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &ClickHouse{ch: ch, cfg: cfg, log: logger.Named("audit")}
}

// EnsureTable creates the events table when missing
func (s *ClickHouse) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  event          LowCardinality(String),
  certificate_id String,
  actor          String,
  status         LowCardinality(String),
  reason         String,
  at             DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (certificate_id, at)`, s.cfg.Table)
	return s.ch.Exec(ctx, ddl)
}

// Record inserts e; failures are logged and swallowed
func (s *ClickHouse) Record(ctx context.Context, e domain.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	row := []any{string(e.Kind), e.CertificateID, e.Actor, e.Status, e.Reason, e.At.UTC()}
	if err := s.ch.Insert(ctx, s.cfg.Table, [][]any{row}); err != nil {
		s.log.Warn().Err(err).
			Str("event", string(e.Kind)).
			Str("certificate_id", e.CertificateID).
			Msg("audit insert failed")
	}
}

// Memory keeps events in process
type Memory struct {
	mu     sync.Mutex
	events []domain.Event
}

// Record appends e
func (m *Memory) Record(_ context.Context, e domain.Event) {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
}

// Events returns a copy of everything recorded
func (m *Memory) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Event(nil), m.events...)
}

// Kinds lists the recorded kinds in order
func (m *Memory) Kinds() []domain.Kind {
	evs := m.Events()
	out := make([]domain.Kind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}
