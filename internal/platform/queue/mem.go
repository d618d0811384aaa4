package queue

import (
	"context"
	"sync"
	"time"

	perr "certifica/internal/platform/errors"
	ptime "certifica/internal/platform/time"

	"github.com/google/uuid"
)

// Mem is an in-process channel queue for tests and single-binary runs
type Mem struct {
	cfg Config

	mu     sync.Mutex
	topics map[string]chan Message
	dead   []Message

	// FailPublish forces the next Publish to fail
	FailPublish error
}

// NewMem returns an empty queue
func NewMem(c Config) *Mem {
	return &Mem{cfg: c.withDefaults(), topics: map[string]chan Message{}}
}

func (q *Mem) topic(name string) chan Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.topics[name]
	if !ok {
		ch = make(chan Message, 1024)
		q.topics[name] = ch
	}
	return ch
}

// Publish buffers payload on topic
func (q *Mem) Publish(ctx context.Context, topic string, payload []byte) error {
	q.mu.Lock()
	if err := q.FailPublish; err != nil {
		q.FailPublish = nil
		q.mu.Unlock()
		return perr.Queue(err, "publish")
	}
	q.mu.Unlock()

	m := Message{ID: uuid.NewString(), Topic: topic, Payload: append([]byte(nil), payload...), Attempts: 1}
	select {
	case q.topic(topic) <- m:
		return nil
	case <-ctx.Done():
		return perr.Queue(ctx.Err(), "publish")
	}
}

// Pending reports how many messages wait on topic
func (q *Mem) Pending(topic string) int { return len(q.topic(topic)) }

// Dead returns messages that exhausted MaxAttempts
func (q *Mem) Dead() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Message(nil), q.dead...)
}

// Consume delivers buffered messages until ctx is done, requeueing failures
func (q *Mem) Consume(ctx context.Context, topic string, h Handler) error {
	in := q.topic(topic)
	g := workers(q.cfg.Concurrency)
	defer func() { _ = g.Wait() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-in:
			g.Go(func() error {
				if err := safeHandle(ctx, h, m); err == nil {
					return nil
				}
				if m.Attempts >= q.cfg.MaxAttempts {
					q.mu.Lock()
					q.dead = append(q.dead, m)
					q.mu.Unlock()
					return nil
				}
				retry := m
				retry.Attempts++
				time.AfterFunc(ptime.Backoff(m.Attempts-1, q.cfg.RetryBase, q.cfg.RetryMax), func() {
					in <- retry
				})
				return nil
			})
		}
	}
}

// Close is a no-op
func (q *Mem) Close() error { return nil }
