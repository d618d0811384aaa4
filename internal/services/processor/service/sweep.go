package service

import (
	"context"
	"errors"

	"certifica/internal/platform/logger"
	adom "certifica/internal/services/audit/domain"
	csvc "certifica/internal/services/certificates/service"
	"certifica/internal/services/processor/guardrails"
)

// Sweep republishes PENDING certificates that were never marked enqueued
// A failed publish is left for the next sweep
func (s *Svc) Sweep(ctx context.Context) (int, error) {
	l := logger.C(ctx).With().Str("mod", "processor").Str("step", "sweep").Logger()

	var n int
	run := func(ctx context.Context) error {
		var err error
		n, err = s.sweepUnlocked(ctx)
		return err
	}

	if s.lease == nil {
		err := run(ctx)
		return n, err
	}
	if err := s.lease(ctx, run); err != nil {
		if errors.Is(err, guardrails.ErrLeaseHeld) {
			l.Debug().Msg("processor: sweep held elsewhere; skip")
			return 0, nil
		}
		return n, err
	}
	return n, nil
}

func (s *Svc) sweepUnlocked(ctx context.Context) (int, error) {
	l := logger.C(ctx).With().Str("mod", "processor").Str("step", "sweep").Logger()

	r := s.repo()
	stale, err := r.ListStalePending(ctx, s.now().Add(-s.cfg.StaleAfter), s.cfg.SweepBatch)
	if err != nil {
		return 0, err
	}

	var n int
	for _, c := range stale {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		cl := l.With().Str("certificate_id", c.ID).Logger()

		payload, err := csvc.EncodeMessage(c)
		if err != nil {
			cl.Error().Err(err).Msg("processor: encode failed")
			continue
		}
		if err := s.pub.Publish(ctx, s.cfg.Topic, payload); err != nil {
			cl.Warn().Err(err).Msg("processor: republish failed; next sweep retries")
			if s.m != nil {
				s.m.PublishFailures.Inc()
			}
			continue
		}
		if err := r.MarkEnqueued(ctx, c.ID, s.now()); err != nil {
			cl.Warn().Err(err).Msg("processor: mark enqueued failed after republish")
		}

		n++
		if s.m != nil {
			s.m.SweepRepublished.Inc()
		}
		s.audit.Record(ctx, adom.Event{
			Kind:          adom.KindRepublished,
			CertificateID: c.ID,
			Actor:         "processor",
			Status:        string(c.Status),
			At:            s.now(),
		})
	}
	if n > 0 || len(stale) > 0 {
		l.Info().Int("found", len(stale)).Int("republished", n).Msg("processor: sweep done")
	}
	return n, nil
}
