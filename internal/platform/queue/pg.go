package queue

import (
	"context"
	"time"

	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/logger"
	"certifica/internal/platform/store"
	ptime "certifica/internal/platform/time"

	"github.com/google/uuid"
)

// PG is a table-backed queue leased with FOR UPDATE SKIP LOCKED
type PG struct {
	q   store.RowQuerier
	cfg Config
	now func() time.Time
}

// NewPG binds the queue to the queue_messages table
func NewPG(q store.RowQuerier, c Config) *PG {
	c = c.withDefaults()
	if c.WorkerID == "" {
		c.WorkerID = "processor-" + uuid.NewString()[:8]
	}
	return &PG{q: q, cfg: c, now: time.Now}
}

// Publish inserts one row; it is visible to consumers once the statement commits
func (p *PG) Publish(ctx context.Context, topic string, payload []byte) error {
	const sqlq = `INSERT INTO queue_messages (id, topic, payload) VALUES ($1, $2, $3)`
	if _, err := p.q.Exec(ctx, sqlq, uuid.New(), topic, payload); err != nil {
		return perr.Queue(err, "publish")
	}
	return nil
}

// lease claims up to Batch ready messages; expired leases are eligible again
func (p *PG) lease(ctx context.Context, topic string) ([]Message, error) {
	const sqlq = `
        WITH ready AS (
            SELECT id
              FROM queue_messages
             WHERE topic = $1
               AND dead_at IS NULL
               AND available_at <= now()
               AND (leased_by IS NULL OR lease_expires_at < now())
             ORDER BY available_at ASC
             LIMIT $2
             FOR UPDATE SKIP LOCKED
        ), upd AS (
            UPDATE queue_messages m
               SET leased_by = $3,
                   lease_expires_at = now() + make_interval(secs => $4),
                   updated_at = now()
             WHERE m.id IN (SELECT id FROM ready)
            RETURNING m.id, m.topic, m.payload, m.attempts
        )
        SELECT id::text, topic, payload, attempts + 1 FROM upd
    `
	rows, err := p.q.Query(ctx, sqlq, topic, p.cfg.Batch, p.cfg.WorkerID, p.cfg.Lease.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Topic, &m.Payload, &m.Attempts); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// complete deletes a handled message, guarded by our lease
func (p *PG) complete(ctx context.Context, id string) error {
	const sqlq = `DELETE FROM queue_messages WHERE id = $1 AND leased_by = $2`
	_, err := p.q.Exec(ctx, sqlq, id, p.cfg.WorkerID)
	return err
}

// fail clears the lease and reschedules, or marks the message dead after MaxAttempts
func (p *PG) fail(ctx context.Context, m Message, cause error) (dead bool, err error) {
	dead = m.Attempts >= p.cfg.MaxAttempts
	next := p.now().Add(ptime.Backoff(m.Attempts-1, p.cfg.RetryBase, p.cfg.RetryMax))
	const sqlq = `
        UPDATE queue_messages
           SET attempts         = attempts + 1,
               last_error       = NULLIF($3, ''),
               available_at     = $4,
               dead_at          = CASE WHEN $5 THEN now() ELSE NULL END,
               leased_by        = NULL,
               lease_expires_at = NULL,
               updated_at       = now()
         WHERE id = $1 AND leased_by = $2
    `
	_, err = p.q.Exec(ctx, sqlq, m.ID, p.cfg.WorkerID, cause.Error(), next, dead)
	return dead, err
}

// Consume polls every Poll interval and hands leased messages to a bounded pool
func (p *PG) Consume(ctx context.Context, topic string, h Handler) error {
	log := logger.Named("queue-pg").With().Str("topic", topic).Str("worker", p.cfg.WorkerID).Logger()
	g := workers(p.cfg.Concurrency)
	defer func() { _ = g.Wait() }()

	ticker := time.NewTicker(p.cfg.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		msgs, err := p.lease(ctx, topic)
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("lease messages failed")
			}
			continue
		}
		for _, m := range msgs {
			g.Go(func() error {
				// settle with a detached ctx so shutdown does not strand a lease
				settle, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
				defer cancel()

				if herr := safeHandle(ctx, h, m); herr != nil {
					dead, err := p.fail(settle, m, herr)
					ev := log.Warn()
					if dead {
						ev = log.Error()
					}
					ev.Err(herr).Str("message_id", m.ID).Int("attempts", m.Attempts).Bool("dead", dead).
						AnErr("settle_err", err).Msg("message failed")
					return nil
				}
				if err := p.complete(settle, m.ID); err != nil {
					log.Error().Err(err).Str("message_id", m.ID).Msg("complete message failed")
				}
				return nil
			})
		}
	}
}

// Close is a no-op; the pool belongs to the store
func (p *PG) Close() error { return nil }
