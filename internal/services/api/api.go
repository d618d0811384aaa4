// Package api assembles the HTTP API: certificates, opportunities and meta under /api/v1
package api

import (
	"context"
	"errors"

	"certifica/internal/modkit"
	"certifica/internal/modkit/httpkit"
	"certifica/internal/modkit/module"
	"certifica/internal/modkit/swaggerkit"
	"certifica/internal/platform/blob"
	"certifica/internal/platform/config"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/metrics"
	phttp "certifica/internal/platform/net/http"
	"certifica/internal/platform/net/middleware"
	"certifica/internal/platform/queue"
	"certifica/internal/platform/store"

	_ "certifica/internal/services/api/docs" // registers the swagger document
	metamod "certifica/internal/services/api/meta/module"
	auditmod "certifica/internal/services/audit/module"
	certmod "certifica/internal/services/certificates/module"
	oppmod "certifica/internal/services/opportunities/module"
)

// Options are the API options
type Options struct {
	// Config is the root config; modules read their own prefixes from it
	Config   config.Conf
	Store    *store.Store
	Blob     blob.Store
	Queue    queue.Queue
	Metrics  *metrics.Metrics
	Verifier *identity.Verifier

	// MaxBody caps every /api request body; uploads need room for the file plus the form
	MaxBody int64

	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
// It must run before anything else registers routes on r
func Mount(ctx context.Context, r phttp.Router, opt Options) error {
	if opt.Store == nil || opt.Store.PG == nil {
		return errors.New("api: postgres store is required")
	}
	if opt.Blob == nil || opt.Queue == nil {
		return errors.New("api: blob store and queue are required")
	}
	if opt.Verifier == nil {
		return errors.New("api: token verifier is required")
	}

	deps := modkit.Deps{
		Cfg:     opt.Config,
		PG:      opt.Store.PG,
		CH:      opt.Store.CH,
		Blob:    opt.Blob,
		Queue:   opt.Queue,
		Metrics: opt.Metrics,
	}

	// the audit sink is resolved by name, so it registers before its consumers are built
	audit := auditmod.New(ctx, deps, auditmod.Options{})
	module.Register(audit.Name(), audit.Ports())

	certs := certmod.New(deps, certmod.Options{})
	mods := []module.Module{
		metamod.New(deps, metamod.Options{ServiceName: "certifica-api"}),
		certs,
		oppmod.New(deps),
	}

	maxBody := opt.MaxBody
	if maxBody <= 0 {
		// multipart framing and the request part ride on top of the file
		maxBody = certs.MaxUploadBytes() + 1<<20
	}

	r.Use(middleware.Defaults()...)
	r.Use(middleware.Heartbeat("/health"))

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Auth:    httpkit.NewPortFunc(opt.Verifier.Parse),
		Metrics: opt.Metrics,
		MaxBody: maxBody,
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	return nil
}
