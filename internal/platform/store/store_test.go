package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"certifica/internal/platform/config"
	kit "certifica/internal/platform/testkit"
)

type pingTx struct {
	fakeQ
	err error
}

func (p *pingTx) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(p) }
func (p *pingTx) Ping(context.Context) error                               { return p.err }
func (p *pingTx) Close() error                                             { return nil }

func TestOpenNothingEnabled(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("disabled backends should stay nil")
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard with no seams = %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenBadPGURL(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}})
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOptionErrorStopsOpen(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Open(context.Background(), Config{}, func(*Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Open err = %v", err)
	}
}

func TestGuard(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should fail Guard")
	}

	ok := &Store{PG: &pingTx{}}
	if err := ok.Guard(context.Background()); err != nil {
		t.Fatalf("Guard ok = %v", err)
	}

	down := &Store{PG: &pingTx{err: errors.New("refused")}}
	err := down.Guard(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "pg: ") {
		t.Fatalf("Guard down = %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u:p@db/certifica")
	t.Setenv("SERVICE_PGSQL_AUTO_MIGRATE", "true")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "4")

	c := FromConfig(config.New(), "certifica-api")
	if !c.PG.Enabled || !c.PG.AutoMigrate || c.PG.MaxConns != 4 || c.CH.Enabled || c.AppName != "certifica-api" {
		t.Fatalf("FromConfig = %+v", c)
	}

	t.Setenv("SERVICE_CH_ENABLED", "true")
	kit.MustPanic(t, func() { _ = FromConfig(config.New(), "x") })
}

func TestWithPGSkipsDial(t *testing.T) {
	t.Parallel()

	seam := &pingTx{}
	// the url would fail to parse if Open tried to dial
	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}}, WithPG(seam))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != seam {
		t.Fatalf("injected seam not kept")
	}
	if _, err := Open(context.Background(), Config{}, WithPG(nil)); err == nil {
		t.Fatalf("nil seam should fail")
	}
}
