package service

import (
	"context"
	"encoding/json"

	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/logger"
	adom "certifica/internal/services/audit/domain"
	"certifica/internal/services/certificates/domain"
)

// Submission outcomes
const (
	outcomeAccepted  = "accepted"
	outcomeInvalid   = "invalid"
	outcomeDuplicate = "duplicate"
	outcomeStorage   = "storage_error"
	outcomePersist   = "persist_error"
)

// Submit runs the intake pipeline: check, dedupe, store the file, persist, enqueue, audit
// A failure before the blob write leaves no trace; a failed publish still succeeds
func (s *Svc) Submit(ctx context.Context, caller identity.Principal, in domain.SubmitInput, f domain.File) (domain.Certificate, error) {
	if caller.IsZero() {
		return domain.Certificate{}, perr.Unauthorizedf("authentication required")
	}

	c, err := s.check(in, f)
	if err != nil {
		s.submission(outcomeInvalid)
		return domain.Certificate{}, err
	}

	log := logger.C(ctx).With().
		Str("submitted_by", caller.Subject).
		Str("category", string(c.category)).
		Logger()

	r := s.repo()
	dup, err := r.ExistsByTriple(ctx, caller.Subject, c.title, c.category)
	if err != nil {
		return domain.Certificate{}, err
	}
	if dup {
		s.submission(outcomeDuplicate)
		return domain.Certificate{}, perr.DuplicateKeyf("a certificate with this title and category was already submitted")
	}

	key := objectKey(c.contentType, f.OriginalFilename)
	url, err := s.blob.Put(ctx, key, f.Bytes, c.contentType)
	if err != nil {
		s.submission(outcomeStorage)
		log.Error().Err(err).Str("step", "blob_put").Str("object_key", key).Msg("certificate upload failed")
		return domain.Certificate{}, perr.Storage(err, "blob_put")
	}
	if s.m != nil {
		s.m.UploadBytes.WithLabelValues(c.contentType).Add(float64(c.size))
	}

	cert, err := r.Insert(ctx, domain.NewCertificate{
		SubmittedBy:      caller.Subject,
		Title:            c.title,
		Category:         c.category,
		DurationInHours:  in.DurationInHours,
		ExpirationDate:   in.ExpirationDate,
		ObjectKey:        key,
		FileURL:          url,
		OriginalFilename: f.OriginalFilename,
		FileType:         c.contentType,
		SizeBytes:        c.size,
		Checksum:         c.checksum,
		UploadedAt:       s.now(),
	})
	if err != nil {
		// the object stays behind either way; only the duplicate race is a client error
		if s.m != nil {
			s.m.BlobOrphans.Inc()
		}
		log.Error().Err(err).Str("step", "persist").Str("orphan_object_key", key).Msg("certificate record not persisted")
		if perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
			s.submission(outcomeDuplicate)
			return domain.Certificate{}, err
		}
		s.submission(outcomePersist)
		return domain.Certificate{}, err
	}

	if s.enqueue(ctx, cert) {
		if err := r.MarkEnqueued(ctx, cert.ID, s.now()); err != nil {
			log.Warn().Err(err).Str("certificate_id", cert.ID).Msg("enqueue marker not saved; sweep will republish")
		}
	}

	s.submission(outcomeAccepted)
	s.record(ctx, adom.KindSubmitted, cert, caller.Subject)
	log.Info().Str("certificate_id", cert.ID).Str("object_key", key).Int64("size_bytes", c.size).Msg("certificate submitted")
	return cert, nil
}

// enqueue publishes the processing message; failures are logged and counted, never returned
func (s *Svc) enqueue(ctx context.Context, c domain.Certificate) bool {
	payload, err := EncodeMessage(c)
	if err == nil {
		err = s.pub.Publish(ctx, s.cfg.Topic, payload)
	}
	if err != nil {
		if s.m != nil {
			s.m.PublishFailures.Inc()
		}
		logger.C(ctx).Error().Err(perr.Queue(err, "publish")).
			Str("step", "publish").
			Str("certificate_id", c.ID).
			Str("topic", s.cfg.Topic).
			Msg("processing message not published")
		return false
	}
	return true
}

// EncodeMessage builds the processing payload for c
func EncodeMessage(c domain.Certificate) ([]byte, error) {
	return json.Marshal(domain.ProcessingMessage{CertificateID: c.ID, ObjectKey: c.ObjectKey})
}
