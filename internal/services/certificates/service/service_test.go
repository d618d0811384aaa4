package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"certifica/internal/platform/blob"
	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/metrics"
	"certifica/internal/platform/queue"
	"certifica/internal/platform/store/storetest"
	kit "certifica/internal/platform/testkit"
	adom "certifica/internal/services/audit/domain"
	asvc "certifica/internal/services/audit/service"
	"certifica/internal/services/certificates/domain"
	"certifica/internal/services/certificates/repo/repotest"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	ana   = identity.Principal{Subject: "ana@ufu.br", Role: identity.RoleUser}
	admin = identity.Principal{Subject: "coord@ufu.br", Role: identity.RoleAdmin}

	fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
)

type env struct {
	svc   *Svc
	repo  *repotest.Memory
	blob  *blob.Mem
	queue *queue.Mem
	audit *asvc.Memory
	m     *metrics.Metrics
}

func newEnv(t *testing.T, cfg Config) env {
	t.Helper()
	e := env{
		repo:  repotest.NewMemory(),
		blob:  blob.NewMem("https://files.test/certs"),
		queue: queue.NewMem(queue.Config{}),
		audit: &asvc.Memory{},
		m:     metrics.New(),
	}
	e.svc = New(storetest.Tx{}, e.repo.Binder(), Options{
		Blob:      e.blob,
		Publisher: e.queue,
		Audit:     e.audit,
		Metrics:   e.m,
		Now:       func() time.Time { return fixedNow },
		Config:    cfg,
	})
	return e
}

func sniffing() Config { return Config{SniffContent: true} }

func validInput() domain.SubmitInput {
	return domain.SubmitInput{Title: "Monitoria de Calculo I", Category: "MONITORING", DurationInHours: 60}
}

func pdfFile() domain.File {
	return domain.File{Bytes: pdfBytes, OriginalFilename: "monitoria.PDF", DeclaredContentType: "application/pdf"}
}

func TestNewPanicsOnMissingDeps(t *testing.T) {
	t.Parallel()

	r := repotest.NewMemory()
	kit.MustPanic(t, func() { New(nil, r.Binder(), Options{Blob: blob.NewMem(""), Publisher: queue.NewMem(queue.Config{})}) })
	kit.MustPanic(t, func() { New(storetest.Tx{}, nil, Options{Blob: blob.NewMem(""), Publisher: queue.NewMem(queue.Config{})}) })
	kit.MustPanic(t, func() { New(storetest.Tx{}, r.Binder(), Options{Publisher: queue.NewMem(queue.Config{})}) })
	kit.MustPanic(t, func() { New(storetest.Tx{}, r.Binder(), Options{Blob: blob.NewMem("")}) })

	s := New(storetest.Tx{}, r.Binder(), Options{Blob: blob.NewMem(""), Publisher: queue.NewMem(queue.Config{})})
	c := s.Config()
	if c.MaxUploadBytes != 15<<20 || c.ViewURLMode != ViewStored || c.Topic != "certificate-processing" {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestSubmitHappyPath(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	ctx := context.Background()

	in := validInput()
	in.Title = "  Monitoria   de Calculo I "
	cert, err := e.svc.Submit(ctx, ana, in, pdfFile())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if cert.Status != domain.StatusPending || cert.SubmittedBy != ana.Subject {
		t.Fatalf("status/submitter = %s/%s", cert.Status, cert.SubmittedBy)
	}
	if cert.Title != "Monitoria de Calculo I" {
		t.Fatalf("title not normalized: %q", cert.Title)
	}
	if cert.ValidatedBy != nil || cert.ValidationTimestamp != nil || cert.RejectionReason != nil {
		t.Fatalf("validation fields set on a new certificate: %+v", cert)
	}
	if !strings.HasSuffix(cert.ObjectKey, ".pdf") || len(cert.ObjectKey) != 26+4 {
		t.Fatalf("object key = %q", cert.ObjectKey)
	}
	if strings.Contains(cert.ObjectKey, "monitoria") {
		t.Fatalf("object key derived from filename: %q", cert.ObjectKey)
	}
	if cert.FileURL != "https://files.test/certs/"+cert.ObjectKey {
		t.Fatalf("file url = %q", cert.FileURL)
	}
	if cert.SizeBytes != int64(len(pdfBytes)) || len(cert.Checksum) != 64 {
		t.Fatalf("size/checksum = %d/%q", cert.SizeBytes, cert.Checksum)
	}
	if !cert.UploadTimestamp.Equal(fixedNow) {
		t.Fatalf("uploaded at = %v", cert.UploadTimestamp)
	}

	stored, ok := e.blob.Bytes(cert.ObjectKey)
	if !ok || string(stored) != string(pdfBytes) {
		t.Fatalf("blob not stored under object key")
	}

	if e.queue.Pending("certificate-processing") != 1 {
		t.Fatalf("expected one processing message")
	}
	got, _ := e.repo.GetByID(ctx, cert.ID)
	if got.EnqueuedAt == nil {
		t.Fatalf("enqueue marker not set")
	}
	if k := e.audit.Kinds(); len(k) != 1 || k[0] != adom.KindSubmitted {
		t.Fatalf("audit = %v", k)
	}
	if v := testutil.ToFloat64(e.m.Submissions.WithLabelValues(outcomeAccepted)); v != 1 {
		t.Fatalf("accepted submissions = %v", v)
	}
	if v := testutil.ToFloat64(e.m.UploadBytes.WithLabelValues("application/pdf")); v != float64(len(pdfBytes)) {
		t.Fatalf("upload bytes = %v", v)
	}
}

func TestSubmitPublishesProcessingMessage(t *testing.T) {
	t.Parallel()
	e := newEnv(t, Config{Topic: "certs"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cert, err := e.svc.Submit(ctx, ana, validInput(), pdfFile())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	msgs := make(chan queue.Message, 1)
	go func() {
		_ = e.queue.Consume(ctx, "certs", func(_ context.Context, m queue.Message) error {
			msgs <- m
			return nil
		})
	}()

	select {
	case m := <-msgs:
		var pm domain.ProcessingMessage
		if err := json.Unmarshal(m.Payload, &pm); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if pm.CertificateID != cert.ID || pm.ObjectKey != cert.ObjectKey {
			t.Fatalf("message = %+v", pm)
		}
		if !strings.Contains(string(m.Payload), `"certificateId"`) {
			t.Fatalf("payload keys = %s", m.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no message delivered")
	}
}

func TestSubmitRejectsWithoutSideEffects(t *testing.T) {
	t.Parallel()

	big := make([]byte, 2048)
	copy(big, pdfBytes)

	cases := []struct {
		name   string
		cfg    Config
		caller identity.Principal
		in     func(*domain.SubmitInput)
		file   domain.File
		code   perr.ErrorCode
		field  string
	}{
		{"anonymous", sniffing(), identity.Principal{}, nil, pdfFile(), perr.ErrorCodeUnauthorized, ""},
		{"empty file", sniffing(), ana, nil, domain.File{DeclaredContentType: "application/pdf"}, perr.ErrorCodeValidation, "file"},
		{"too large", Config{MaxUploadBytes: 1024}, ana, nil,
			domain.File{Bytes: big, DeclaredContentType: "application/pdf"}, perr.ErrorCodeValidation, "file"},
		{"unsupported type", sniffing(), ana, nil,
			domain.File{Bytes: []byte("hello"), DeclaredContentType: "text/plain"}, perr.ErrorCodeValidation, "file"},
		{"missing type", sniffing(), ana, nil,
			domain.File{Bytes: pdfBytes}, perr.ErrorCodeValidation, "file"},
		{"content disagrees", sniffing(), ana, nil,
			domain.File{Bytes: pngBytes, DeclaredContentType: "application/pdf"}, perr.ErrorCodeValidation, "file"},
		{"blank title", sniffing(), ana, func(in *domain.SubmitInput) { in.Title = "   " }, pdfFile(), perr.ErrorCodeValidation, "title"},
		{"long title", sniffing(), ana, func(in *domain.SubmitInput) { in.Title = strings.Repeat("é", 201) }, pdfFile(), perr.ErrorCodeValidation, "title"},
		{"bad category", sniffing(), ana, func(in *domain.SubmitInput) { in.Category = "GAMING" }, pdfFile(), perr.ErrorCodeValidation, "category"},
		{"zero duration", sniffing(), ana, func(in *domain.SubmitInput) { in.DurationInHours = 0 }, pdfFile(), perr.ErrorCodeValidation, "durationInHours"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t, c.cfg)
			in := validInput()
			if c.in != nil {
				c.in(&in)
			}
			_, err := e.svc.Submit(context.Background(), c.caller, in, c.file)
			if !perr.IsCode(err, c.code) {
				t.Fatalf("code = %s, want %s (%v)", perr.CodeOf(err), c.code, err)
			}
			if c.field != "" {
				if pe, ok := perr.As(err); !ok || pe.Field() != c.field {
					t.Fatalf("field = %v, want %s", err, c.field)
				}
			}
			if e.blob.Len() != 0 || e.repo.Len() != 0 || e.queue.Pending("certificate-processing") != 0 {
				t.Fatalf("side effects after rejection")
			}
			if len(e.audit.Events()) != 0 {
				t.Fatalf("audit recorded a rejected submission")
			}
		})
	}
}

func TestSubmitAcceptsTypeParamsAndCase(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())

	f := domain.File{Bytes: pngBytes, OriginalFilename: "scan", DeclaredContentType: "Image/PNG; charset=binary"}
	cert, err := e.svc.Submit(context.Background(), ana, validInput(), f)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if cert.FileType != "image/png" || !strings.HasSuffix(cert.ObjectKey, ".png") {
		t.Fatalf("type/key = %s/%s", cert.FileType, cert.ObjectKey)
	}
}

func TestSubmitDuplicateTriple(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	ctx := context.Background()

	if _, err := e.svc.Submit(ctx, ana, validInput(), pdfFile()); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := e.svc.Submit(ctx, ana, validInput(), pdfFile())
	if !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("second Submit = %v, want duplicate", err)
	}
	if e.blob.Len() != 1 || e.repo.Len() != 1 || e.queue.Pending("certificate-processing") != 1 {
		t.Fatalf("duplicate produced side effects")
	}

	other := identity.Principal{Subject: "bia@ufu.br", Role: identity.RoleUser}
	if _, err := e.svc.Submit(ctx, other, validInput(), pdfFile()); err != nil {
		t.Fatalf("same title by another submitter: %v", err)
	}
	in := validInput()
	in.Category = "research"
	if _, err := e.svc.Submit(ctx, ana, in, pdfFile()); err != nil {
		t.Fatalf("same title in another category: %v", err)
	}
}

func TestSubmitBlobFailure(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	e.blob.FailPut = errors.New("s3: 503 slow down")

	_, err := e.svc.Submit(context.Background(), ana, validInput(), pdfFile())
	if !perr.IsCode(err, perr.ErrorCodeStorage) {
		t.Fatalf("Submit = %v, want storage error", err)
	}
	if e.repo.Len() != 0 || e.queue.Pending("certificate-processing") != 0 {
		t.Fatalf("record or message created after blob failure")
	}
	if v := testutil.ToFloat64(e.m.Submissions.WithLabelValues(outcomeStorage)); v != 1 {
		t.Fatalf("storage outcome = %v", v)
	}
}

func TestSubmitPersistFailureLeavesOrphan(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	e.repo.FailInsert = perr.DBf("connection reset")

	_, err := e.svc.Submit(context.Background(), ana, validInput(), pdfFile())
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("Submit = %v, want DB error", err)
	}
	if e.blob.Len() != 1 {
		t.Fatalf("orphan object should remain, got %d objects", e.blob.Len())
	}
	if e.queue.Pending("certificate-processing") != 0 {
		t.Fatalf("message published without a record")
	}
	if v := testutil.ToFloat64(e.m.BlobOrphans); v != 1 {
		t.Fatalf("orphans = %v", v)
	}
}

func TestSubmitLosingInsertRaceIsDuplicate(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	e.repo.FailInsert = perr.Wrap(perr.DuplicateKeyf("duplicate key"), perr.ErrorCodeDuplicateKey,
		"a certificate with this title and category was already submitted")

	_, err := e.svc.Submit(context.Background(), ana, validInput(), pdfFile())
	if !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("Submit = %v (%s), want duplicate", err, perr.CodeOf(err))
	}
	if e.repo.Count("ExistsByTriple") != 1 {
		t.Fatalf("pre-check should have passed before the insert")
	}
	if e.queue.Pending("certificate-processing") != 0 {
		t.Fatalf("message published for a lost race")
	}
	if v := testutil.ToFloat64(e.m.BlobOrphans); v != 1 {
		t.Fatalf("orphans = %v", v)
	}
	if v := testutil.ToFloat64(e.m.Submissions.WithLabelValues(outcomeDuplicate)); v != 1 {
		t.Fatalf("duplicate outcome = %v", v)
	}
	if v := testutil.ToFloat64(e.m.Submissions.WithLabelValues(outcomePersist)); v != 0 {
		t.Fatalf("lost race counted as persist error")
	}
	if len(e.audit.Kinds()) != 0 {
		t.Fatalf("audit recorded a lost race: %v", e.audit.Kinds())
	}
}

func TestSubmitSucceedsWhenPublishFails(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	e.queue.FailPublish = errors.New("broker down")
	ctx := context.Background()

	cert, err := e.svc.Submit(ctx, ana, validInput(), pdfFile())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, err := e.repo.GetByID(ctx, cert.ID)
	if err != nil || got.Status != domain.StatusPending {
		t.Fatalf("record not persisted: %v", err)
	}
	if got.EnqueuedAt != nil {
		t.Fatalf("enqueue marker set despite failed publish")
	}
	if e.repo.Count("MarkEnqueued") != 0 {
		t.Fatalf("MarkEnqueued called after failed publish")
	}
	if v := testutil.ToFloat64(e.m.PublishFailures); v != 1 {
		t.Fatalf("publish failures = %v", v)
	}
}

func TestSubmitToleratesMarkEnqueuedFailure(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	e.repo.FailMarkEnqueued = perr.DBf("timeout")

	if _, err := e.svc.Submit(context.Background(), ana, validInput(), pdfFile()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if e.queue.Pending("certificate-processing") != 1 {
		t.Fatalf("message not published")
	}
}

func TestObjectKeyExtension(t *testing.T) {
	t.Parallel()

	cases := []struct{ ct, name, want string }{
		{"application/pdf", "a.pdf", ".pdf"},
		{"application/pdf", "a.PNG", ".pdf"},
		{"image/jpeg", "photo.JPEG", ".jpeg"},
		{"image/jpeg", "photo", ".jpg"},
		{"image/png", "x.tar.png", ".png"},
	}
	for _, c := range cases {
		k := objectKey(c.ct, c.name)
		if !strings.HasSuffix(k, c.want) {
			t.Fatalf("objectKey(%s, %s) = %s, want suffix %s", c.ct, c.name, k, c.want)
		}
	}
	if objectKey("application/pdf", "a.pdf") == objectKey("application/pdf", "a.pdf") {
		t.Fatalf("object keys must be unique")
	}
}
