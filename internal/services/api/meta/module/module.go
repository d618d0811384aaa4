// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	modkit "certifica/internal/modkit"
	"certifica/internal/modkit/httpkit"
	str "certifica/internal/platform/strings"

	metahttp "certifica/internal/services/api/meta/http"
)

// Options name the service and the dependencies /meta/ready pings
type Options struct {
	ServiceName string
	Checks      []metahttp.Dependency
}

// Module implements the modkit.Module interface
type Module struct {
	built     modkit.Built
	opts      Options
	startedAt time.Time
}

// New constructs a meta module; with no checks given it pings deps.PG and deps.Blob
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	if o.ServiceName == "" {
		o.ServiceName = "certifica-api"
	}
	if o.Checks == nil {
		o.Checks = DefaultChecks(deps)
	}
	return &Module{built: b, opts: o, startedAt: deps.Now()}
}

// DefaultChecks pings postgres when it exposes Ping and the blob store's Health
func DefaultChecks(deps modkit.Deps) []metahttp.Dependency {
	pg := metahttp.Dependency{Name: "pg"}
	if p, ok := deps.PG.(metahttp.Pinger); ok {
		pg.Ping = p
	}
	bl := metahttp.Dependency{Name: "blob"}
	if deps.Blob != nil {
		bl.Ping = metahttp.PingFunc(deps.Blob.Health)
	}
	return []metahttp.Dependency{pg, bl}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) {
		metahttp.Register(sub, metahttp.Deps{
			ServiceName: m.opts.ServiceName,
			StartedAt:   m.startedAt,
			Checks:      m.opts.Checks,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
