package repo

import (
	"context"
	"testing"
	"time"

	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/store"
	"certifica/internal/services/opportunities/domain"
)

type panicQ struct{ t *testing.T }

func (p panicQ) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	p.t.Fatalf("unexpected Exec")
	return nil, nil
}

func (p panicQ) Query(context.Context, string, ...any) (store.Rows, error) {
	p.t.Fatalf("unexpected Query")
	return nil, nil
}

func (p panicQ) QueryRow(context.Context, string, ...any) store.Row {
	p.t.Fatalf("unexpected QueryRow")
	return nil
}

func TestMalformedIDs(t *testing.T) {
	t.Parallel()

	r := NewPG().Bind(panicQ{t: t})
	ctx := context.Background()

	if _, err := r.GetByID(ctx, "7"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("GetByID = %v", err)
	}
	if _, err := r.Update(ctx, "x", domain.Patch{Title: "t", Hours: 1, At: time.Now()}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("Update = %v", err)
	}
	if err := r.Delete(ctx, ""); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("Delete = %v", err)
	}
	if _, _, err := r.AddApplicant(ctx, "nope", "ana", time.Now()); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("AddApplicant = %v", err)
	}
}
