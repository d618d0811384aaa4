package repo

import (
	"context"
	"testing"
	"time"

	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/store"
	"certifica/internal/services/certificates/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// panicQ fails the test if any statement reaches the database
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

func TestMalformedIDsAreNotFoundWithoutQuery(t *testing.T) {
	t.Parallel()

	r := NewPG().Bind(panicQ{t: t})
	ctx := context.Background()

	if _, err := r.GetByID(ctx, "42"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("GetByID err = %v", err)
	}
	if _, err := r.ApplyValidation(ctx, "not-a-uuid", domain.Validation{Status: domain.StatusApproved, At: time.Now()}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("ApplyValidation err = %v", err)
	}
	if err := r.Delete(ctx, ""); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("Delete err = %v", err)
	}
}

func TestNotFoundMapping(t *testing.T) {
	t.Parallel()

	if err := notFound(store.ErrNoRows, "get"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("no rows -> %v", err)
	}
	if err := notFound(context.DeadlineExceeded, "get"); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("other -> %v", err)
	}
}

func TestInsertErrorMapping(t *testing.T) {
	t.Parallel()

	triple := &pgconn.PgError{Code: "23505", ConstraintName: tripleConstraint}
	if err := insertError(triple); !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("triple collision -> %s", perr.CodeOf(err))
	}

	key := &pgconn.PgError{Code: "23505", ConstraintName: "certificates_object_key_key"}
	err := insertError(key)
	if perr.IsCode(err, perr.ErrorCodeDuplicateKey) || !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("object key collision -> %s", perr.CodeOf(err))
	}

	if err := insertError(&pgconn.PgError{Code: "23514"}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("check violation -> %s", perr.CodeOf(err))
	}
}
