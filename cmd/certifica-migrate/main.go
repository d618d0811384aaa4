package main

import (
	"flag"
	"fmt"
	"os"

	"certifica/internal/platform/config"
	"certifica/internal/platform/logger"
	"certifica/internal/platform/migrate"
)

func main() {
	var (
		fDown  = flag.Int("down", 0, "revert N migrations (-1 reverts all)")
		fForce = flag.Int("force", -1, "force the recorded version to clear a dirty state")
		fVer   = flag.Bool("version", false, "print the current schema version and exit")
		fDSN   = flag.String("dsn", "", "postgres dsn (defaults to SERVICE_PGSQL_DBURL)")
	)
	flag.Parse()

	l := logger.Get()
	dsn := *fDSN
	if dsn == "" {
		dsn = config.New().Prefix("SERVICE_PGSQL_").MustString("DBURL")
	}

	r, err := migrate.New(dsn)
	if err != nil {
		l.Fatal().Err(err).Msg("open migrations")
	}
	defer func() { _ = r.Close() }()

	switch {
	case *fVer:
		st, err := r.Status()
		if err != nil {
			l.Fatal().Err(err).Msg("read version")
		}
		fmt.Fprintf(os.Stdout, "version=%d dirty=%v applied=%v\n", st.Version, st.Dirty, st.Applied)
	case *fForce >= 0:
		if err := r.Force(*fForce); err != nil {
			l.Fatal().Err(err).Int("version", *fForce).Msg("force")
		}
		l.Info().Int("version", *fForce).Msg("version forced")
	case *fDown != 0:
		n := *fDown
		if n < 0 {
			n = 0
		}
		if err := r.Down(n); err != nil {
			l.Fatal().Err(err).Msg("down")
		}
		l.Info().Int("steps", *fDown).Msg("migrations reverted")
	default:
		if err := r.Up(); err != nil {
			l.Fatal().Err(err).Msg("up")
		}
	}
}
