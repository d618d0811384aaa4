// Package migrate applies the embedded schema with golang-migrate
package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"certifica/internal/platform/logger"
	"certifica/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Runner wraps a migrate instance bound to one database
type Runner struct {
	m *migrate.Migrate
}

// Status is the schema version as recorded in schema_migrations
type Status struct {
	Version uint
	Dirty   bool
	Applied bool
}

// DriverURL rewrites a postgres:// DSN to the pgx5:// scheme the driver registers
func DriverURL(dsn string) (string, error) {
	for _, p := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, p); ok {
			return "pgx5://" + rest, nil
		}
	}
	if strings.HasPrefix(dsn, "pgx5://") {
		return dsn, nil
	}
	return "", fmt.Errorf("migrate: unsupported dsn scheme in %q", redact(dsn))
}

func redact(dsn string) string {
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		if i := strings.Index(dsn, "://"); i >= 0 && i < at {
			return dsn[:i+3] + "***" + dsn[at:]
		}
	}
	return dsn
}

// New opens a runner over the bundled migrations
func New(dsn string) (*Runner, error) { return NewFromFS(migrations.FS, dsn) }

// NewFromFS opens a runner over any directory of numbered up/down files
func NewFromFS(fsys fs.FS, dsn string) (*Runner, error) {
	url, err := DriverURL(dsn)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("migrate: load source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("migrate: open database: %w", err)
	}
	m.Log = zlog{}
	return &Runner{m: m}, nil
}

// Up applies every pending migration; no change is not an error
func (r *Runner) Up() error {
	log := logger.Named("migrate")
	if err := r.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("schema up to date")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	st, _ := r.Status()
	log.Info().Uint("version", st.Version).Msg("migrations applied")
	return nil
}

// Down reverts n migrations, all of them when n <= 0
func (r *Runner) Down(n int) error {
	var err error
	if n <= 0 {
		err = r.m.Down()
	} else {
		err = r.m.Steps(-n)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Force sets the recorded version without running anything, to clear a dirty state
func (r *Runner) Force(version int) error { return r.m.Force(version) }

// Status reports the current version
func (r *Runner) Status() (Status, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Version: v, Dirty: dirty, Applied: true}, nil
}

// Close releases the source and database handles
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Up is the one-shot helper used by the api on start
func Up(dsn string) error {
	r, err := New(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	return r.Up()
}

// zlog adapts migrate's logger to zerolog
type zlog struct{}

func (zlog) Printf(format string, v ...any) {
	logger.Named("migrate").Debug().Msgf(strings.TrimSpace(format), v...)
}

func (zlog) Verbose() bool { return false }
