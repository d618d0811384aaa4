package pg

import (
	"context"
	"errors"
	"testing"

	"certifica/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpenParseError(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpenAppliesConfig(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil
	})

	mutated := false
	p, err := Open(context.Background(), Config{
		URL:      "postgres://u:p@db:5432/certifica?sslmode=disable",
		AppName:  "certifica-api",
		MaxConns: 7,
		SlowMs:   250,
	}, nil, func(*pgxpool.Config) { mutated = true })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !mutated || seen.MaxConns != 7 || seen.ConnConfig.RuntimeParams["application_name"] != "certifica-api" {
		t.Fatalf("config not applied: max=%d params=%v", seen.MaxConns, seen.ConnConfig.RuntimeParams)
	}
	if p.SlowMs != 250 {
		t.Fatalf("SlowMs = %d", p.SlowMs)
	}
}

func TestOpenPoolError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@h/db"}, nil, nil); err == nil {
		t.Fatalf("expected pool error")
	}
}

func TestCloseNilSafe(t *testing.T) {
	t.Parallel()
	var p *PG
	p.Close()
	(&PG{}).Close()
}
