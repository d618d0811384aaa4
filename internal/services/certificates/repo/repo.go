// Package repo is the Postgres record store for certificates
package repo

import (
	"context"
	"time"

	"certifica/internal/modkit/repokit"
	"certifica/internal/services/certificates/domain"
)

// Repo is the certificate query surface
type Repo interface {
	Insert(ctx context.Context, c domain.NewCertificate) (domain.Certificate, error)
	GetByID(ctx context.Context, id string) (domain.Certificate, error)
	ExistsByTriple(ctx context.Context, submittedBy, title string, category domain.Category) (bool, error)
	ListAll(ctx context.Context) ([]domain.Certificate, error)
	ListBySubmitter(ctx context.Context, submittedBy string) ([]domain.Certificate, error)
	ApplyValidation(ctx context.Context, id string, v domain.Validation) (domain.Certificate, error)
	Delete(ctx context.Context, id string) error
	MarkEnqueued(ctx context.Context, id string, at time.Time) error
	MarkProcessed(ctx context.Context, id string, at time.Time) (bool, error)
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.Certificate, error)
}

type queries struct{ q repokit.Queryer }

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] {
	return repokit.BindFunc[Repo](func(q repokit.Queryer) Repo { return &queries{q: q} })
}
