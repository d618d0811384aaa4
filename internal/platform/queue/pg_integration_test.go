//go:build integration_pg

package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"certifica/internal/platform/queue"
	"certifica/internal/platform/store"
	kit "certifica/internal/platform/testkit"
	"certifica/internal/platform/testkit/pgtest"
)

func TestPGQueueRoundTrip(t *testing.T) {
	s := pgtest.Migrated(t)
	q := queue.NewPG(s.PG, queue.Config{
		MaxAttempts: 2,
		RetryBase:   10 * time.Millisecond,
		Poll:        20 * time.Millisecond,
		Concurrency: 2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ok, bad atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Consume(ctx, "certificate-processing", func(_ context.Context, m queue.Message) error {
			if string(m.Payload) == "poison" {
				bad.Add(1)
				return errors.New("cannot process")
			}
			ok.Add(1)
			return nil
		})
	}()

	for _, p := range []string{"a", "b", "poison"} {
		if err := q.Publish(ctx, "certificate-processing", []byte(p)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	kit.Eventually(t, 10*time.Second, func() bool { return ok.Load() == 2 && bad.Load() == 2 }, "deliveries")

	countDead := func() int {
		n, _ := store.Scalar[int](context.Background(), s.PG,
			`SELECT count(*) FROM queue_messages WHERE dead_at IS NOT NULL`)
		return n
	}
	kit.Eventually(t, 5*time.Second, func() bool { return countDead() == 1 }, "poison message buried")

	live, err := store.Scalar[int](context.Background(), s.PG, `SELECT count(*) FROM queue_messages WHERE dead_at IS NULL`)
	if err != nil || live != 0 {
		t.Fatalf("live messages = %d, %v", live, err)
	}

	cancel()
	<-done
}
