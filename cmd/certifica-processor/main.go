package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"certifica/internal/core/version"
	"certifica/internal/modkit"
	"certifica/internal/modkit/module"
	"certifica/internal/modkit/repokit"
	"certifica/internal/platform/blob"
	"certifica/internal/platform/config"
	"certifica/internal/platform/logger"
	"certifica/internal/platform/metrics"
	"certifica/internal/platform/queue"
	"certifica/internal/platform/store"

	auditmod "certifica/internal/services/audit/module"
	procmod "certifica/internal/services/processor/module"
)

func main() {
	var (
		fOnce  = flag.Bool("sweep-once", false, "run one reconciliation sweep and exit")
		fStats = flag.String("metrics-addr", "", "serve /metrics on this address, e.g. :9090")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	l := logger.Get()
	l.Info().Str("build", version.Info("certifica-processor").String()).Msg("starting")

	st, err := store.Open(ctx, store.FromConfig(root, "certifica-processor"), store.WithLogger(*l))
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
	if *fStats != "" {
		serveMetrics(ctx, *fStats, m)
	}

	bs, err := blob.Open(ctx, blob.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("blob.Open failed")
	}

	// handler fan-out follows PROCESSOR_CONCURRENCY
	qCfg := queue.FromConfig(root)
	qCfg.Concurrency = procmod.FromConfig(root).Concurrency
	q, err := queue.Open(ctx, qCfg, st.PG)
	if err != nil {
		l.Panic().Err(err).Msg("queue.Open failed")
	}
	defer func() { _ = q.Close() }()

	deps := modkit.Deps{
		Cfg:     root,
		PG:      st.PG,
		CH:      st.CH,
		Blob:    blob.Instrument(bs, m),
		Queue:   q,
		Metrics: m,
		Log:     *l,
	}

	audit := auditmod.New(ctx, deps, auditmod.Options{})
	module.Register(audit.Name(), audit.Ports())

	mod := procmod.New(deps)
	module.Register(mod.Name(), mod.Ports())
	ports := module.MustPortsOf[procmod.Ports](mod)

	if *fOnce {
		n, err := ports.Runner.Sweep(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("sweep failed")
		}
		l.Info().Int("republished", n).Msg("sweep done")
		return
	}

	if err := ports.Runner.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("processor failed")
	}
}
