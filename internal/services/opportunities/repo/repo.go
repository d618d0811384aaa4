// Package repo is the Postgres store for opportunities
package repo

import (
	"context"
	"errors"
	"time"

	"certifica/internal/modkit/repokit"
	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/store"
	"certifica/internal/services/opportunities/domain"

	"github.com/google/uuid"
)

// Repo is the opportunity query surface
type Repo interface {
	Insert(ctx context.Context, o domain.Opportunity) (domain.Opportunity, error)
	GetByID(ctx context.Context, id string) (domain.Opportunity, error)
	List(ctx context.Context) ([]domain.Opportunity, error)
	Update(ctx context.Context, id string, p domain.Patch) (domain.Opportunity, error)
	Delete(ctx context.Context, id string) error
	// AddApplicant appends who once; ok=false means the opportunity is not OPEN
	AddApplicant(ctx context.Context, id, who string, at time.Time) (out domain.Opportunity, ok bool, err error)
}

type queries struct{ q repokit.Queryer }

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] {
	return repokit.BindFunc[Repo](func(q repokit.Queryer) Repo { return &queries{q: q} })
}

const columns = `id::text, title, description, hours, created_by, status::text, applicants, created_at, updated_at`

func scanRow(r store.Row) (domain.Opportunity, error) {
	var (
		o      domain.Opportunity
		status string
	)
	if err := r.Scan(&o.ID, &o.Title, &o.Description, &o.Hours, &o.CreatedBy, &status,
		&o.Applicants, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return domain.Opportunity{}, err
	}
	o.Status = domain.Status(status)
	if o.Applicants == nil {
		o.Applicants = []string{}
	}
	return o, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func missing() error { return perr.NotFoundf("opportunity not found") }

func notFound(err error, op string) error {
	if errors.Is(err, store.ErrNoRows) {
		return missing()
	}
	return perr.FromPostgres(err, op)
}

func (r *queries) Insert(ctx context.Context, o domain.Opportunity) (domain.Opportunity, error) {
	const sqlq = `
		INSERT INTO opportunities (id, title, description, hours, created_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::opportunity_status, $7, $7)
		RETURNING ` + columns
	out, err := store.One(ctx, r.q, scanRow, sqlq,
		o.ID, o.Title, o.Description, o.Hours, o.CreatedBy, string(o.Status), o.CreatedAt)
	if err != nil {
		return domain.Opportunity{}, perr.FromPostgres(err, "insert opportunity")
	}
	return out, nil
}

func (r *queries) GetByID(ctx context.Context, id string) (domain.Opportunity, error) {
	if !validID(id) {
		return domain.Opportunity{}, missing()
	}
	out, err := store.One(ctx, r.q, scanRow, `SELECT `+columns+` FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return domain.Opportunity{}, notFound(err, "get opportunity")
	}
	return out, nil
}

func (r *queries) List(ctx context.Context) ([]domain.Opportunity, error) {
	out, err := store.Many(ctx, r.q, scanRow, `SELECT `+columns+` FROM opportunities ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "list opportunities")
	}
	return out, nil
}

func (r *queries) Update(ctx context.Context, id string, p domain.Patch) (domain.Opportunity, error) {
	if !validID(id) {
		return domain.Opportunity{}, missing()
	}
	var status any
	if p.Status != nil {
		status = string(*p.Status)
	}
	const sqlq = `
		UPDATE opportunities
		   SET title       = $2,
		       description = $3,
		       hours       = $4,
		       status      = COALESCE($5::opportunity_status, status),
		       updated_at  = $6
		 WHERE id = $1
		RETURNING ` + columns
	out, err := store.One(ctx, r.q, scanRow, sqlq, id, p.Title, p.Description, p.Hours, status, p.At)
	if err != nil {
		return domain.Opportunity{}, notFound(err, "update opportunity")
	}
	return out, nil
}

func (r *queries) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return missing()
	}
	if err := store.ExecOne(ctx, r.q, `DELETE FROM opportunities WHERE id = $1`, id); err != nil {
		return notFound(err, "delete opportunity")
	}
	return nil
}

func (r *queries) AddApplicant(ctx context.Context, id, who string, at time.Time) (domain.Opportunity, bool, error) {
	if !validID(id) {
		return domain.Opportunity{}, false, missing()
	}
	const sqlq = `
		UPDATE opportunities
		   SET applicants = CASE WHEN $2 = ANY(applicants) THEN applicants ELSE array_append(applicants, $2) END,
		       updated_at = CASE WHEN $2 = ANY(applicants) THEN updated_at ELSE $3 END
		 WHERE id = $1 AND status = 'OPEN'
		RETURNING ` + columns
	out, err := store.One(ctx, r.q, scanRow, sqlq, id, who, at)
	if errors.Is(err, store.ErrNoRows) {
		return domain.Opportunity{}, false, nil
	}
	if err != nil {
		return domain.Opportunity{}, false, perr.FromPostgres(err, "add applicant")
	}
	return out, true, nil
}
