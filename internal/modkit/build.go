package modkit

import (
	"net/http"

	"certifica/internal/modkit/httpkit"
)

// Built is the resolved option set a module keeps after construction
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	SwaggerOn bool

	// Register adds caller-supplied routes after the module's own
	Register func(httpkit.Router)
}

// Build applies opts over zero values and returns the resolved set
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		SwaggerOn: c.swaggerOn,
		Register:  c.register,
	}
}

// Mount routes own under Prefix with the module middlewares, then runs Register
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(sub httpkit.Router) {
		if own != nil {
			own(sub)
		}
		b.Register(sub)
	})
}
