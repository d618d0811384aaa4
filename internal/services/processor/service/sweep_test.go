package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"certifica/internal/platform/queue"
	adom "certifica/internal/services/audit/domain"
	"certifica/internal/services/certificates/domain"
	"certifica/internal/services/processor/guardrails"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSweepRepublishesStalePending(t *testing.T) {
	t.Parallel()

	e := newEnv(t, nil)
	stale := e.stored(t, "stale", []byte("%PDF"))

	fresh := e.stored(t, "fresh", []byte("%PDF"))
	fresh.UploadTimestamp = fixedNow.Add(-time.Minute)
	e.repo.Put(fresh)

	queued := e.stored(t, "queued", []byte("%PDF"))
	at := fixedNow.Add(-time.Hour)
	queued.EnqueuedAt = &at
	e.repo.Put(queued)

	n, err := e.svc.Sweep(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("Sweep = %d, %v; want 1", n, err)
	}
	if e.queue.Pending("certificate-processing") != 1 {
		t.Fatalf("pending = %d", e.queue.Pending("certificate-processing"))
	}
	got, _ := e.repo.GetByID(context.Background(), stale.ID)
	if got.EnqueuedAt == nil {
		t.Fatalf("republished certificate should be marked enqueued")
	}
	if testutil.ToFloat64(e.m.SweepRepublished) != 1 {
		t.Fatalf("sweep metric not counted")
	}
	if k := e.audit.Kinds(); len(k) != 1 || k[0] != adom.KindRepublished {
		t.Fatalf("audit kinds = %v", k)
	}

	// a second sweep finds nothing
	if n, _ := e.svc.Sweep(context.Background()); n != 0 {
		t.Fatalf("second sweep republished %d", n)
	}
}

func TestSweepPayloadMatchesSubmit(t *testing.T) {
	t.Parallel()

	e := newEnv(t, nil)
	c := e.stored(t, "c1", []byte("%PDF"))
	if _, err := e.svc.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan domain.ProcessingMessage, 1)
	go func() {
		_ = e.queue.Consume(ctx, "certificate-processing", func(_ context.Context, m queue.Message) error {
			var pm domain.ProcessingMessage
			_ = json.Unmarshal(m.Payload, &pm)
			got <- pm
			return nil
		})
	}()
	select {
	case pm := <-got:
		if pm.CertificateID != c.ID || pm.ObjectKey != c.ObjectKey {
			t.Fatalf("payload = %+v", pm)
		}
	case <-time.After(time.Second):
		t.Fatalf("no message delivered")
	}
}

func TestSweepLeavesFailedPublishForNextRun(t *testing.T) {
	t.Parallel()

	e := newEnv(t, nil)
	c := e.stored(t, "c1", []byte("%PDF"))
	e.queue.FailPublish = errors.New("broker down")

	n, err := e.svc.Sweep(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("Sweep = %d, %v", n, err)
	}
	got, _ := e.repo.GetByID(context.Background(), c.ID)
	if got.EnqueuedAt != nil {
		t.Fatalf("failed publish must not mark enqueued")
	}
	if testutil.ToFloat64(e.m.PublishFailures) != 1 {
		t.Fatalf("publish failure not counted")
	}

	if n, _ := e.svc.Sweep(context.Background()); n != 1 {
		t.Fatalf("next sweep republished %d, want 1", n)
	}
}

func TestSweepRespectsBatch(t *testing.T) {
	t.Parallel()

	e := newEnv(t, nil)
	e.svc.cfg.SweepBatch = 2
	for _, id := range []string{"a", "b", "c"} {
		e.stored(t, id, []byte("%PDF"))
	}
	if n, _ := e.svc.Sweep(context.Background()); n != 2 {
		t.Fatalf("first sweep = %d, want 2", n)
	}
	if n, _ := e.svc.Sweep(context.Background()); n != 1 {
		t.Fatalf("second sweep = %d, want 1", n)
	}
}

func TestSweepSkipsWhenLeaseHeld(t *testing.T) {
	t.Parallel()

	e := newEnv(t, nil)
	e.stored(t, "c1", []byte("%PDF"))
	e.svc.lease = func(context.Context, func(context.Context) error) error { return guardrails.ErrLeaseHeld }

	n, err := e.svc.Sweep(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("held lease should be a clean skip, got %d, %v", n, err)
	}
	if e.repo.Count("ListStalePending") != 0 {
		t.Fatalf("sweep ran without the lease")
	}
}
