// Package module wires the processor as a modkit.Module
package module

import (
	"certifica/internal/modkit"
	"certifica/internal/modkit/httpkit"
	modreg "certifica/internal/modkit/module"
	auditmod "certifica/internal/services/audit/module"
	crepo "certifica/internal/services/certificates/repo"
	pdom "certifica/internal/services/processor/domain"
	"certifica/internal/services/processor/guardrails"
	psvc "certifica/internal/services/processor/service"
)

// Name is the registry name of the processor module
const Name = "processor"

// Ports exported by the processor module
type Ports struct {
	Runner pdom.RunnerPort
}

// Module implements modkit.Module for the processor
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs and wires the processor using deps.Cfg
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)
	if deps.Queue == nil {
		panic("processor module requires a queue")
	}

	var lease guardrails.Lease
	if opts.Leases {
		lease = guardrails.MakeSweepLease(deps.PG, "certifica.sweep")
	}

	o := psvc.Options{
		Blob:      deps.Blob,
		Publisher: deps.Queue,
		Consumer:  deps.Queue,
		Metrics:   deps.Metrics,
		Now:       deps.Now,
		Lease:     lease,
		Config: psvc.Config{
			Topic:      opts.Topic,
			SweepCron:  opts.SweepCron,
			StaleAfter: opts.StaleAfter,
			SweepBatch: opts.SweepBatch,
		},
	}
	if p, ok := modreg.PortsAs[auditmod.Ports](auditmod.Name); ok {
		o.Audit = p.Sink
	}

	svc := psvc.New(deps.PG, crepo.NewPG(), o)

	return &Module{deps: deps, opts: opts, ports: Ports{Runner: svc}}
}

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }

// Name returns the module name
func (m *Module) Name() string { return Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module config prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op: the processor has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
