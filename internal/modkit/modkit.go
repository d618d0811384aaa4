package modkit

import (
	phttp "certifica/internal/platform/net/http"
)

// Module is the surface every API or worker module exposes to the composition root
type Module interface {
	// MountRoutes attaches the module's endpoints; worker-only modules mount nothing
	MountRoutes(r phttp.Router)
	// Ports returns the module's port set for cross wiring
	Ports() any

	Name() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
