package middleware

import (
	"net/http"

	pnet "certifica/internal/platform/net"
)

// AuthPort resolves the caller from a request
// Parse returns empty values and a nil error for anonymous requests
type AuthPort interface {
	Parse(r *http.Request) (userID, role string, err error)
}

// Auth stores the caller identity on the request context
// Presented but invalid credentials are rejected here; missing ones are left to the route
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, role, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithUser(r.Context(), uid, role)))
		})
	}
}
