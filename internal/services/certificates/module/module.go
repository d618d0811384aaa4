// Package module wires certificates into the API using modkit
package module

import (
	"net/http"

	"certifica/internal/modkit"
	"certifica/internal/modkit/httpkit"
	"certifica/internal/modkit/module"
	str "certifica/internal/platform/strings"
	adom "certifica/internal/services/audit/domain"
	auditmod "certifica/internal/services/audit/module"
	chttp "certifica/internal/services/certificates/http"
	crepo "certifica/internal/services/certificates/repo"
	csvc "certifica/internal/services/certificates/service"
)

// Name is the registry name of the certificates module
const Name = "certificates"

// Ports declares the ports this module consumes
// Audit falls back to the audit module's registered sink
type Ports struct {
	Audit adom.Sink
}

// Exposed is what the module offers other modules
type Exposed struct {
	Service csvc.Service
}

// Module implements the certificates API module
type Module struct {
	built modkit.Built
	opts  Options
	svc   csvc.Service
}

// New constructs the module from config; a non-zero override replaces the config value
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName(Name),
		modkit.WithPrefix("/certificate"),
	}, opts...)...)

	o := FromConfig(deps.Cfg)
	if overrides.MaxUploadBytes > 0 {
		o.MaxUploadBytes = overrides.MaxUploadBytes
	}
	if overrides.ViewURLMode != "" {
		o.ViewURLMode = overrides.ViewURLMode
	}
	if overrides.PresignTTL > 0 {
		o.PresignTTL = overrides.PresignTTL
	}
	if overrides.Topic != "" {
		o.Topic = overrides.Topic
	}

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Audit == nil {
		if p, ok := module.PortsAs[auditmod.Ports](auditmod.Name); ok {
			injected.Audit = p.Sink
		}
	}
	if deps.Queue == nil {
		panic("certificates module requires a queue")
	}

	s := csvc.New(deps.PG, crepo.NewPG(), csvc.Options{
		Blob:      deps.Blob,
		Publisher: deps.Queue,
		Audit:     injected.Audit,
		Metrics:   deps.Metrics,
		Now:       deps.Now,
		Config:    o.service(),
	})

	return &Module{built: b, opts: o, svc: s}
}

// MountRoutes mounts the module routes under its prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) {
		chttp.Register(sub, m.svc, m.opts.MaxUploadBytes)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix is where the routes are mounted
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares returns the module-level middleware
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }

// MaxUploadBytes is the effective upload cap
func (m *Module) MaxUploadBytes() int64 { return m.opts.MaxUploadBytes }

// Ports exposes the service
func (m *Module) Ports() any { return Exposed{Service: m.svc} }
