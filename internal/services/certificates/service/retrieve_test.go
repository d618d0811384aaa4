package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	adom "certifica/internal/services/audit/domain"
	"certifica/internal/services/certificates/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestListings(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	ctx := context.Background()

	submitted(t, e)
	bia := identity.Principal{Subject: "bia@ufu.br", Role: identity.RoleUser}
	if _, err := e.svc.Submit(ctx, bia, validInput(), pdfFile()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	all, err := e.svc.ListAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll = %d, %v", len(all), err)
	}
	mine, err := e.svc.ListBySubmitter(ctx, bia)
	if err != nil || len(mine) != 1 || mine[0].SubmittedBy != bia.Subject {
		t.Fatalf("ListBySubmitter = %+v, %v", mine, err)
	}
	none, err := e.svc.ListBySubmitter(ctx, identity.Principal{Subject: "nobody@ufu.br"})
	if err != nil || len(none) != 0 {
		t.Fatalf("ListBySubmitter(nobody) = %d, %v", len(none), err)
	}
	if _, err := e.svc.ListBySubmitter(ctx, identity.Principal{}); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("anonymous listing = %v", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	ctx := context.Background()
	c := submitted(t, e)

	if err := e.svc.Delete(ctx, c.ID, admin); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := e.svc.Get(ctx, c.ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("Get after delete = %v", err)
	}
	if e.blob.Len() != 0 {
		t.Fatalf("blob not deleted")
	}
	if k := e.audit.Kinds(); k[len(k)-1] != adom.KindDeleted {
		t.Fatalf("audit = %v", k)
	}
	if v := testutil.ToFloat64(e.m.Deletions.WithLabelValues(deleteOK)); v != 1 {
		t.Fatalf("deletions ok = %v", v)
	}

	if err := e.svc.Delete(ctx, c.ID, admin); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("second Delete = %v, want not found", err)
	}
}

func TestDeleteBlobFailureKeepsRecord(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	ctx := context.Background()
	c := submitted(t, e)
	e.blob.FailDelete = errors.New("s3: access denied")

	if err := e.svc.Delete(ctx, c.ID, admin); !perr.IsCode(err, perr.ErrorCodeStorage) {
		t.Fatalf("Delete = %v, want storage error", err)
	}
	if _, err := e.svc.Get(ctx, c.ID); err != nil {
		t.Fatalf("record removed after blob failure: %v", err)
	}
	if e.repo.Count("Delete") != 0 {
		t.Fatalf("record delete attempted after blob failure")
	}
}

func TestViewURLModes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	stored := newEnv(t, sniffing())
	c := submitted(t, stored)
	got, err := stored.svc.ViewURL(ctx, c.ID)
	if err != nil || got.URL != c.FileURL {
		t.Fatalf("stored ViewURL = %+v, %v", got, err)
	}

	presigned := newEnv(t, Config{SniffContent: true, ViewURLMode: ViewPresigned, PresignTTL: time.Minute})
	c = submitted(t, presigned)
	got, err = presigned.svc.ViewURL(ctx, c.ID)
	if err != nil || !strings.Contains(got.URL, c.ObjectKey+"?expires=") {
		t.Fatalf("presigned ViewURL = %+v, %v", got, err)
	}

	if _, err := presigned.svc.ViewURL(ctx, "missing"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("ViewURL(missing) = %v", err)
	}
}

func TestGetReturnsPersistedFields(t *testing.T) {
	t.Parallel()
	e := newEnv(t, sniffing())
	ctx := context.Background()

	in := validInput()
	exp := domain.NewDate(fixedNow.AddDate(1, 0, 0))
	in.ExpirationDate = &exp
	c, err := e.svc.Submit(ctx, ana, in, pdfFile())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, err := e.svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ExpirationDate == nil || got.ExpirationDate.String() != "2027-03-14" {
		t.Fatalf("expiration = %v", got.ExpirationDate)
	}
	if got.OriginalFilename != "monitoria.PDF" || got.DurationInHours != 60 {
		t.Fatalf("fields = %+v", got)
	}
}
