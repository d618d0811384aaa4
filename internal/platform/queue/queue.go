// Package queue carries processing messages between the api and the processor
// Delivery is at-least-once on every driver; handlers must be idempotent
package queue

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"certifica/internal/platform/config"
	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/logger"
	"certifica/internal/platform/store"

	"golang.org/x/sync/errgroup"
)

// Message is one delivery; Attempts counts this delivery, starting at 1
type Message struct {
	ID       string
	Topic    string
	Payload  []byte
	Attempts int
}

// Handler processes one message; a non-nil error schedules a redelivery
type Handler func(ctx context.Context, m Message) error

// Publisher enqueues payloads on a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Consumer blocks delivering topic messages to h until ctx is done
type Consumer interface {
	Consume(ctx context.Context, topic string, h Handler) error
}

// Queue is what a driver provides
type Queue interface {
	Publisher
	Consumer
	Close() error
}

// Config controls drivers and the consume loop
type Config struct {
	Driver      string // pg, redis or mem
	Topic       string
	MaxAttempts int
	Lease       time.Duration
	RetryBase   time.Duration
	RetryMax    time.Duration
	Batch       int
	Concurrency int
	Poll        time.Duration
	WorkerID    string

	RedisURL   string
	RedisGroup string
}

// FromConfig reads QUEUE_* settings
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("QUEUE_")
	return Config{
		Driver:      c.MayEnum("DRIVER", "pg", "pg", "redis", "mem"),
		Topic:       c.MayString("TOPIC", "certificate-processing"),
		MaxAttempts: c.MayInt("MAX_ATTEMPTS", 10),
		Lease:       c.MayDuration("LEASE", time.Minute),
		RetryBase:   c.MayDuration("RETRY_BASE", 500*time.Millisecond),
		RetryMax:    c.MayDuration("RETRY_MAX", 30*time.Second),
		Batch:       c.MayInt("TAKE_BATCH", 16),
		Concurrency: c.MayInt("CONCURRENCY", 4),
		Poll:        c.MayDuration("POLL", 500*time.Millisecond),
		WorkerID:    c.MayString("WORKER_ID", ""),
		RedisURL:    c.MayString("REDIS_URL", "redis://localhost:6379/0"),
		RedisGroup:  c.MayString("REDIS_GROUP", "certifica-processor"),
	}
}

// withDefaults fills zero fields so hand-built configs behave like FromConfig
func (c Config) withDefaults() Config {
	if c.Topic == "" {
		c.Topic = "certificate-processing"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	if c.Lease <= 0 {
		c.Lease = time.Minute
	}
	if c.RetryBase <= 0 {
		c.RetryBase = 500 * time.Millisecond
	}
	if c.RetryMax <= 0 {
		c.RetryMax = 30 * time.Second
	}
	if c.Batch <= 0 {
		c.Batch = 16
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.Poll <= 0 {
		c.Poll = 500 * time.Millisecond
	}
	if c.RedisGroup == "" {
		c.RedisGroup = "certifica-processor"
	}
	return c
}

// Open builds the configured driver; db is required for pg
func Open(ctx context.Context, c Config, db store.RowQuerier) (Queue, error) {
	c = c.withDefaults()
	switch c.Driver {
	case "pg", "":
		if db == nil {
			return nil, fmt.Errorf("queue: pg driver needs a database")
		}
		return NewPG(db, c), nil
	case "redis":
		return NewRedis(ctx, c)
	case "mem":
		return NewMem(c), nil
	default:
		return nil, fmt.Errorf("queue: unknown driver %q", c.Driver)
	}
}

// safeHandle turns a handler panic into an error so the message is retried
func safeHandle(ctx context.Context, h Handler, m Message) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.C(ctx).Error().Str("message_id", m.ID).Bytes("stack", debug.Stack()).
				Interface("panic", rec).Msg("queue handler panicked")
			err = perr.PanicErrf("handler panic: %v", rec)
		}
	}()
	return h(ctx, m)
}

// workers bounds in-flight handlers for one Consume call; Wait drains them
func workers(n int) *errgroup.Group {
	g := new(errgroup.Group)
	g.SetLimit(max(1, n))
	return g
}
