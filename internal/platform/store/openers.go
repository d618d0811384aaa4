package store

import (
	"context"
	"fmt"
	"time"

	chx "certifica/internal/platform/store/ch"
	"certifica/internal/platform/store/pg"
	ptime "certifica/internal/platform/time"
)

// openPG opens the pool, waits for the database to answer, then wraps it in the sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := max(1, cfg.PG.ConnectRetries)
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	var lastErr error
	for i := range attempts {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			s.Log.Info().Int("attempt", i+1).Msg("postgres ready")
			return newPGAdapter(p), nil
		}

		wait := ptime.Backoff(i, 150*time.Millisecond, 2*time.Second)
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("retry_in", wait).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
