package service

import (
	"context"

	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/logger"
	adom "certifica/internal/services/audit/domain"
	"certifica/internal/services/certificates/domain"
)

// Deletion outcomes
const (
	deleteOK      = "ok"
	deleteStorage = "storage_error"
	deleteRecord  = "record_error"
)

// Get returns one certificate
func (s *Svc) Get(ctx context.Context, id string) (domain.Certificate, error) {
	return s.repo().GetByID(ctx, id)
}

// ListAll returns every certificate, newest first
func (s *Svc) ListAll(ctx context.Context) ([]domain.Certificate, error) {
	return s.repo().ListAll(ctx)
}

// ListBySubmitter returns the caller's own certificates
func (s *Svc) ListBySubmitter(ctx context.Context, caller identity.Principal) ([]domain.Certificate, error) {
	if caller.IsZero() {
		return nil, perr.Unauthorizedf("authentication required")
	}
	return s.repo().ListBySubmitter(ctx, caller.Subject)
}

// Delete removes the stored file and then the record
// A failed file delete keeps the record so the call can be retried
func (s *Svc) Delete(ctx context.Context, id string, actor identity.Principal) error {
	r := s.repo()
	cert, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	log := logger.C(ctx).With().Str("certificate_id", cert.ID).Str("object_key", cert.ObjectKey).Logger()

	if err := s.blob.Delete(ctx, cert.ObjectKey); err != nil {
		s.deletion(deleteStorage)
		log.Error().Err(err).Str("step", "blob_delete").Msg("certificate file not deleted")
		return perr.Storage(err, "blob_delete")
	}
	if err := r.Delete(ctx, cert.ID); err != nil {
		s.deletion(deleteRecord)
		log.Error().Err(err).Str("step", "record_delete").Msg("certificate file deleted but record kept")
		return err
	}

	s.deletion(deleteOK)
	s.record(ctx, adom.KindDeleted, cert, actor.Subject)
	log.Info().Str("actor", actor.Subject).Msg("certificate deleted")
	return nil
}

// ViewURL returns the stored URL or a presigned one, depending on configuration
func (s *Svc) ViewURL(ctx context.Context, id string) (domain.ViewURL, error) {
	cert, err := s.repo().GetByID(ctx, id)
	if err != nil {
		return domain.ViewURL{}, err
	}
	if s.cfg.ViewURLMode != ViewPresigned {
		return domain.ViewURL{URL: cert.FileURL}, nil
	}
	u, err := s.blob.PresignGet(ctx, cert.ObjectKey, s.cfg.PresignTTL)
	if err != nil {
		return domain.ViewURL{}, perr.Storage(err, "presign")
	}
	return domain.ViewURL{URL: u}, nil
}

func (s *Svc) deletion(outcome string) {
	if s.m != nil {
		s.m.Deletions.WithLabelValues(outcome).Inc()
	}
}
