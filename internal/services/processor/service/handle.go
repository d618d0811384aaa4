package service

import (
	"context"
	"encoding/json"
	"errors"

	"certifica/internal/platform/blob"
	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/logger"
	"certifica/internal/platform/queue"
	adom "certifica/internal/services/audit/domain"
	"certifica/internal/services/certificates/domain"
	pdom "certifica/internal/services/processor/domain"
)

// Handle verifies the stored object of one certificate and marks it processed
// Redeliveries of a processed or deleted certificate are acknowledged without work
func (s *Svc) Handle(ctx context.Context, m queue.Message) error {
	l := logger.C(ctx).With().Str("mod", "processor").Str("msg_id", m.ID).Int("attempt", m.Attempts).Logger()

	var msg domain.ProcessingMessage
	if err := json.Unmarshal(m.Payload, &msg); err != nil || msg.CertificateID == "" {
		l.Warn().Err(err).Msg("processor: malformed payload; dropping")
		s.processed(pdom.OutcomeMalformed)
		return nil
	}
	l = l.With().Str("certificate_id", msg.CertificateID).Logger()

	r := s.repo()
	c, err := r.GetByID(ctx, msg.CertificateID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			l.Info().Msg("processor: certificate gone; ack")
			s.processed(pdom.OutcomeGone)
			return nil
		}
		s.processed(pdom.OutcomeRetry)
		return err
	}
	if c.ProcessedAt != nil {
		l.Debug().Msg("processor: already processed")
		s.processed(pdom.OutcomeDuplicate)
		return nil
	}

	info, err := s.blob.Stat(ctx, c.ObjectKey)
	switch {
	case errors.Is(err, blob.ErrNotFound):
		l.Error().Str("object_key", c.ObjectKey).Msg("processor: stored object missing; ack without retry")
		s.processed(pdom.OutcomeMissingBlob)
		return nil
	case err != nil:
		s.processed(pdom.OutcomeRetry)
		return perr.Storage(err, "blob_stat")
	case info.Size != c.SizeBytes:
		l.Warn().Int64("want", c.SizeBytes).Int64("got", info.Size).Msg("processor: stored size mismatch")
		s.processed(pdom.OutcomeRetry)
		return perr.Storage(errSizeMismatch, "blob_stat")
	}

	marked, err := r.MarkProcessed(ctx, c.ID, s.now())
	if err != nil {
		s.processed(pdom.OutcomeRetry)
		return err
	}
	if !marked {
		s.processed(pdom.OutcomeDuplicate)
		return nil
	}

	s.processed(pdom.OutcomeOK)
	s.audit.Record(ctx, adom.Event{
		Kind:          adom.KindProcessed,
		CertificateID: c.ID,
		Actor:         "processor",
		Status:        string(c.Status),
		At:            s.now(),
	})
	l.Info().Msg("processor: certificate verified")
	return nil
}

var errSizeMismatch = errors.New("stored object size does not match record")
