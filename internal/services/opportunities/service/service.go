// Package service contains opportunity workflows
package service

import (
	"context"
	"time"

	"certifica/internal/modkit/repokit"
	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/logger"
	pstrings "certifica/internal/platform/strings"
	"certifica/internal/services/opportunities/domain"
	"certifica/internal/services/opportunities/repo"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	now    func() time.Time
}

var _ Service = (*Svc)(nil)

// New constructs the service; now may be nil
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], now func() time.Time) *Svc {
	if db == nil {
		panic("opportunities.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("opportunities.Service requires a non nil Repo binder")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Svc{db: db, binder: binder, now: now}
}

func (s *Svc) repo() repo.Repo { return repokit.MustBind(s.binder, s.db) }

func requireAdmin(p identity.Principal) error {
	switch {
	case p.IsZero():
		return perr.Unauthorizedf("authentication required")
	case !p.IsAdmin():
		return perr.Forbiddenf("admin role required")
	}
	return nil
}

func title(s string) (string, error) {
	t := pstrings.Normalize(s)
	if n := pstrings.RuneLen(t); n == 0 || n > 200 {
		return "", perr.FieldErrf("title", "title must be 1..200 characters")
	}
	return t, nil
}

// Create opens a new opportunity owned by the caller
func (s *Svc) Create(ctx context.Context, caller identity.Principal, in domain.CreateInput) (domain.Opportunity, error) {
	if caller.IsZero() {
		return domain.Opportunity{}, perr.Unauthorizedf("authentication required")
	}
	t, err := title(in.Title)
	if err != nil {
		return domain.Opportunity{}, err
	}
	if in.Hours <= 0 {
		return domain.Opportunity{}, perr.FieldErrf("hours", "hours must be positive")
	}
	out, err := s.repo().Insert(ctx, domain.Opportunity{
		ID:          uuid.NewString(),
		Title:       t,
		Description: in.Description,
		Hours:       in.Hours,
		CreatedBy:   caller.Subject,
		Status:      domain.StatusOpen,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return domain.Opportunity{}, err
	}
	logger.C(ctx).Info().Str("opportunity_id", out.ID).Str("created_by", out.CreatedBy).Msg("opportunity created")
	return out, nil
}

// List returns every opportunity, newest first
func (s *Svc) List(ctx context.Context) ([]domain.Opportunity, error) { return s.repo().List(ctx) }

// Get returns one opportunity
func (s *Svc) Get(ctx context.Context, id string) (domain.Opportunity, error) {
	return s.repo().GetByID(ctx, id)
}

// Update replaces the editable fields; admin only
func (s *Svc) Update(ctx context.Context, id string, admin identity.Principal, in domain.UpdateInput) (domain.Opportunity, error) {
	if err := requireAdmin(admin); err != nil {
		return domain.Opportunity{}, err
	}
	t, err := title(in.Title)
	if err != nil {
		return domain.Opportunity{}, err
	}
	if in.Hours <= 0 {
		return domain.Opportunity{}, perr.FieldErrf("hours", "hours must be positive")
	}
	p := domain.Patch{Title: t, Description: in.Description, Hours: in.Hours, At: s.now()}
	if in.Status != nil {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return domain.Opportunity{}, err
		}
		p.Status = &st
	}
	return s.repo().Update(ctx, id, p)
}

// Delete removes an opportunity; admin only
func (s *Svc) Delete(ctx context.Context, id string, admin identity.Principal) error {
	if err := requireAdmin(admin); err != nil {
		return err
	}
	return s.repo().Delete(ctx, id)
}

// Apply adds the caller to the applicants once
// Applying twice is a no-op; a CLOSED opportunity is a Conflict
func (s *Svc) Apply(ctx context.Context, id string, caller identity.Principal) (domain.Opportunity, error) {
	if caller.IsZero() {
		return domain.Opportunity{}, perr.Unauthorizedf("authentication required")
	}
	return repokit.InTx(ctx, s.db, s.binder, func(r repo.Repo) (domain.Opportunity, error) {
		out, ok, err := r.AddApplicant(ctx, id, caller.Subject, s.now())
		if err != nil || ok {
			return out, err
		}
		// nothing matched: either missing or closed
		if _, err := r.GetByID(ctx, id); err != nil {
			return domain.Opportunity{}, err
		}
		return domain.Opportunity{}, perr.Conflictf("opportunity is closed")
	})
}
