package service

import (
	"context"
	"errors"
	"fmt"

	"certifica/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

// Run consumes the topic and drives the sweep schedule until ctx is done
func (s *Svc) Run(ctx context.Context) error {
	if s.sub == nil {
		return errors.New("processor: Run requires a consumer")
	}
	l := logger.C(ctx).With().Str("mod", "processor").Str("topic", s.cfg.Topic).Logger()

	clog := cronLogger{l: l}
	c := cron.New(cron.WithLogger(clog), cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)))
	if _, err := c.AddFunc(s.cfg.SweepCron, func() {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("processor: sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("processor: bad sweep schedule %q: %w", s.cfg.SweepCron, err)
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	l.Info().Str("sweep", s.cfg.SweepCron).Dur("stale_after", s.cfg.StaleAfter).Msg("processor: started")
	err := s.sub.Consume(ctx, s.cfg.Topic, s.Handle)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	l.Info().Msg("processor: stopped")
	return err
}

// cronLogger routes cron's own logging through zerolog
type cronLogger struct{ l logger.Logger }

func (c cronLogger) Info(msg string, kv ...any) {
	c.l.Debug().Fields(kv).Msg("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Error().Err(err).Fields(kv).Msg("cron: " + msg)
}
