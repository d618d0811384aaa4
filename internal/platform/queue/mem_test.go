package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"certifica/internal/platform/config"
	perr "certifica/internal/platform/errors"
	kit "certifica/internal/platform/testkit"
)

func fastConfig() Config {
	return Config{Driver: "mem", MaxAttempts: 3, RetryBase: time.Millisecond, RetryMax: 5 * time.Millisecond, Concurrency: 2}
}

func consume(t *testing.T, q Consumer, topic string, h Handler) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Consume(ctx, topic, h)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestMemDeliversAndRetries(t *testing.T) {
	t.Parallel()

	q := NewMem(fastConfig())
	var calls, lastAttempt atomic.Int32
	consume(t, q, "certs", func(_ context.Context, m Message) error {
		n := calls.Add(1)
		lastAttempt.Store(int32(m.Attempts))
		if n < 2 {
			return errors.New("transient")
		}
		return nil
	})

	if err := q.Publish(context.Background(), "certs", []byte(`{"certificateId":"x"}`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	kit.Eventually(t, time.Second, func() bool { return calls.Load() == 2 }, "second delivery")
	if lastAttempt.Load() != 2 {
		t.Fatalf("attempts on redelivery = %d, want 2", lastAttempt.Load())
	}
	if len(q.Dead()) != 0 {
		t.Fatalf("nothing should be dead")
	}
}

func TestMemDeadAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	q := NewMem(fastConfig())
	var calls atomic.Int32
	consume(t, q, "certs", func(context.Context, Message) error {
		calls.Add(1)
		panic("handler exploded")
	})

	_ = q.Publish(context.Background(), "certs", []byte("p"))
	kit.Eventually(t, time.Second, func() bool { return len(q.Dead()) == 1 }, "dead letter")
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
	if got := q.Dead()[0]; got.Attempts != 3 || string(got.Payload) != "p" {
		t.Fatalf("dead = %+v", got)
	}
}

func TestMemPublishFailureIsQueueError(t *testing.T) {
	t.Parallel()

	q := NewMem(fastConfig())
	q.FailPublish = errors.New("down")
	err := q.Publish(context.Background(), "certs", nil)
	if !perr.IsCode(err, perr.ErrorCodeQueue) {
		t.Fatalf("Publish err = %v, want queue code", err)
	}
	if err := q.Publish(context.Background(), "certs", nil); err != nil || q.Pending("certs") != 1 {
		t.Fatalf("second publish = %v pending=%d", err, q.Pending("certs"))
	}
}

func TestFromConfigAndOpen(t *testing.T) {
	t.Setenv("QUEUE_DRIVER", "mem")
	t.Setenv("QUEUE_MAX_ATTEMPTS", "4")

	c := FromConfig(config.New())
	if c.Driver != "mem" || c.MaxAttempts != 4 || c.Topic != "certificate-processing" || c.RetryMax != 30*time.Second {
		t.Fatalf("FromConfig = %+v", c)
	}
	q, err := Open(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("Open mem: %v", err)
	}
	if _, ok := q.(*Mem); !ok {
		t.Fatalf("Open returned %T", q)
	}
	if _, err := Open(context.Background(), Config{Driver: "pg"}, nil); err == nil {
		t.Fatalf("pg without db should fail")
	}
	if _, err := Open(context.Background(), Config{Driver: "kafka"}, nil); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
