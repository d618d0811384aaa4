// Package module wires opportunities into the API using modkit
package module

import (
	"certifica/internal/modkit"
	"certifica/internal/modkit/httpkit"
	str "certifica/internal/platform/strings"
	ohttp "certifica/internal/services/opportunities/http"
	orepo "certifica/internal/services/opportunities/repo"
	osvc "certifica/internal/services/opportunities/service"
)

// Name is the registry name of the opportunities module
const Name = "opportunities"

// Module implements the opportunities API module
type Module struct {
	built modkit.Built
	svc   osvc.Service
}

// New constructs the module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName(Name),
		modkit.WithPrefix("/opportunity"),
	}, opts...)...)

	return &Module{
		built: b,
		svc:   osvc.New(deps.PG, orepo.NewPG(), deps.Now),
	}
}

// MountRoutes mounts the module routes under its prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) { ohttp.Register(sub, m.svc) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix is where the routes are mounted
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports exposes the service
func (m *Module) Ports() any { return m.svc }
