package httpkit

import (
	"net/http"

	perrs "certifica/internal/platform/errors"
	pnet "certifica/internal/platform/net"
	phttp "certifica/internal/platform/net/http"
)

// RequireUser rejects anonymous requests with 403
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pnet.UserID(r.Context()) == "" {
				phttp.RespondError(w, r, perrs.Unauthorizedf("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects anonymous callers and callers lacking role with 403
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			switch {
			case pnet.UserID(ctx) == "":
				phttp.RespondError(w, r, perrs.Unauthorizedf("authentication required"))
			case pnet.Role(ctx) != role:
				phttp.RespondError(w, r, perrs.Forbiddenf("requires role %s", role))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Protected groups routes that need an authenticated caller
func Protected(r Router, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(RequireUser())
		fn(gr)
	})
}

// Restricted groups routes that need the given role
func Restricted(r Router, role string, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(RequireRole(role))
		fn(gr)
	})
}
