package service

import (
	"context"
	"strings"

	"certifica/internal/modkit/repokit"
	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/logger"
	pstrings "certifica/internal/platform/strings"
	adom "certifica/internal/services/audit/domain"
	"certifica/internal/services/certificates/domain"
	"certifica/internal/services/certificates/repo"
)

// Validate applies an admin decision
// DENIED requires a reason; APPROVED clears any previous one
func (s *Svc) Validate(ctx context.Context, id string, admin identity.Principal, in domain.ValidateInput) (domain.Certificate, error) {
	if admin.IsZero() {
		return domain.Certificate{}, perr.Unauthorizedf("authentication required")
	}
	if !admin.IsAdmin() {
		return domain.Certificate{}, perr.Forbiddenf("admin role required")
	}

	type result struct {
		prev, next domain.Certificate
		decision   domain.Status
	}
	res, err := repokit.InTx(ctx, s.db, s.binder, func(r repo.Repo) (result, error) {
		prev, err := r.GetByID(ctx, id)
		if err != nil {
			return result{}, err
		}
		decision, reason, err := decide(in)
		if err != nil {
			return result{}, err
		}
		next, err := r.ApplyValidation(ctx, id, domain.Validation{
			Status:      decision,
			ValidatedBy: admin.Subject,
			Reason:      reason,
			At:          s.now(),
		})
		return result{prev: prev, next: next, decision: decision}, err
	})
	if err != nil {
		return domain.Certificate{}, err
	}

	decision := res.decision
	kind := adom.KindValidated
	if res.prev.Status != domain.StatusPending {
		kind = adom.KindRevalidated
		logger.C(ctx).Warn().
			Str("certificate_id", id).
			Str("previous_status", string(res.prev.Status)).
			Str("previous_validator", pstrings.Deref(res.prev.ValidatedBy)).
			Str("status", string(decision)).
			Msg("certificate re-validated")
	}
	if s.m != nil {
		s.m.Validations.WithLabelValues(string(decision)).Inc()
	}
	s.record(ctx, kind, res.next, admin.Subject)
	return res.next, nil
}

// decide checks the requested transition once the certificate is known to exist
func decide(in domain.ValidateInput) (domain.Status, *string, error) {
	decision, err := domain.ParseDecision(in.Status)
	if err != nil {
		return "", nil, err
	}
	if decision != domain.StatusDenied {
		return decision, nil, nil
	}
	r := ""
	if in.RejectionReason != nil {
		r = strings.TrimSpace(*in.RejectionReason)
	}
	if r == "" {
		return "", nil, perr.FieldErrf("rejectionReason", "rejectionReason is required when denying")
	}
	return decision, &r, nil
}
