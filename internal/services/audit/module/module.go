// Package module wires the audit sink and exposes it as a port
package module

import (
	"context"
	"time"

	"certifica/internal/modkit"
	"certifica/internal/modkit/httpkit"
	"certifica/internal/platform/config"
	"certifica/internal/platform/logger"
	"certifica/internal/services/audit/domain"
	"certifica/internal/services/audit/service"
)

// Name is the registry name of the audit module
const Name = "audit"

// Ports exposes the sink to other modules
type Ports struct {
	Sink domain.Sink
}

// Options controls the sink
type Options struct {
	Table       string
	Timeout     time.Duration
	EnsureTable bool
}

// FromConfig reads AUDIT_TABLE, AUDIT_TIMEOUT and AUDIT_ENSURE_TABLE
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("AUDIT_")
	return Options{
		Table:       c.MayString("TABLE", "certificate_events"),
		Timeout:     c.MayDuration("TIMEOUT", 2*time.Second),
		EnsureTable: c.MayBool("ENSURE_TABLE", true),
	}
}

// Module owns the audit sink; it mounts no routes
type Module struct {
	ports Ports
}

// New picks the ClickHouse sink when deps.CH is set, otherwise a no-op
func New(ctx context.Context, deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Table != "" {
		opts.Table = overrides.Table
	}
	if overrides.Timeout != 0 {
		opts.Timeout = overrides.Timeout
	}

	log := logger.Named(Name)
	if deps.CH == nil {
		log.Info().Msg("clickhouse disabled; audit events are dropped")
		return &Module{ports: Ports{Sink: service.Nop{}}}
	}

	sink := service.NewClickHouse(deps.CH, service.Config{Table: opts.Table, Timeout: opts.Timeout})
	if opts.EnsureTable {
		if err := sink.EnsureTable(ctx); err != nil {
			log.Warn().Err(err).Str("table", opts.Table).Msg("ensure audit table failed")
		}
	}
	return &Module{ports: Ports{Sink: sink}}
}

// Ports returns the sink
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return Name }

// MountRoutes mounts nothing
func (m *Module) MountRoutes(_ httpkit.Router) {}
