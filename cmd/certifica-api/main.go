// @title         Certifica API
// @version       0.1.0
// @description   Certificate submission, validation and processing, plus extension opportunities
// @BasePath      /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"

	"certifica/internal/core/version"
	"certifica/internal/modkit/repokit"
	"certifica/internal/platform/blob"
	"certifica/internal/platform/config"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/logger"
	"certifica/internal/platform/metrics"
	"certifica/internal/platform/migrate"
	phttp "certifica/internal/platform/net/http"
	"certifica/internal/platform/queue"
	"certifica/internal/platform/store"

	"certifica/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()
	l.Info().Str("build", version.Info("certifica-api").String()).Msg("starting")

	stCfg := store.FromConfig(root, "certifica-api")
	if stCfg.PG.AutoMigrate {
		if err := migrate.Up(stCfg.PG.URL); err != nil {
			l.Panic().Err(err).Msg("auto migrate failed")
		}
	}

	st, err := store.Open(ctx, stCfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	m := metrics.New()

	bs, err := blob.Open(ctx, blob.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("blob.Open failed")
	}

	q, err := queue.Open(ctx, queue.FromConfig(root), st.PG)
	if err != nil {
		l.Panic().Err(err).Msg("queue.Open failed")
	}
	defer func() { _ = q.Close() }()

	v, err := identity.NewVerifier(identity.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("identity verifier")
	}

	// http server (reads CORE_API_PORT and timeouts)
	srv := phttp.NewServer(apiCfg)

	if err := api.Mount(ctx, srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Blob:           blob.Instrument(bs, m),
		Queue:          q,
		Metrics:        m,
		Verifier:       v,
		MaxBody:        apiCfg.MayBytes("MAX_BODY", 0),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	}); err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
