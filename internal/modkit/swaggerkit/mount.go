// Package swaggerkit serves the API document and the Swagger UI
package swaggerkit

import (
	"net/http"

	phttp "certifica/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// InstanceName is the swag registry name the api docs package registers under
const InstanceName = "api"

// Mount serves /swagger/doc.json and the UI under /swagger/ when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusPermanentRedirect)
	})
	r.Get("/swagger/doc.json", serveDocJSON())
	r.Handle("/swagger/*", httpSwagger.Handler(
		httpSwagger.InstanceName(InstanceName),
		httpSwagger.URL("/swagger/doc.json"),
	))
}
