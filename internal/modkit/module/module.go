// Package module holds the module contract and the bootstrap port registry
package module

import (
	phttp "certifica/internal/platform/net/http"
)

// Module mirrors modkit.Module so packages exporting their own Ports type avoid an import cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
