package httpkit

import (
	"net/http"
	"strings"

	perrs "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	pnet "certifica/internal/platform/net"
)

// Caller returns the principal the auth middleware resolved, or Unauthorized when anonymous
func Caller(r *http.Request) (identity.Principal, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return identity.Principal{}, perrs.Unauthorizedf("authentication required")
	}
	return identity.Principal{Subject: uid, Role: pnet.Role(r.Context())}, nil
}

// MustCaller returns the principal or panics; only for routes behind RequireUser
func MustCaller(r *http.Request) identity.Principal {
	p, err := Caller(r)
	if err != nil {
		panic(err)
	}
	return p
}

// JWT returns the raw bearer token from the Authorization header
// ok=false means no Authorization header at all; a malformed header is an error
func JWT(r *http.Request) (raw string, ok bool, err error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	if s == "" {
		return "", false, nil
	}
	const prefix = "bearer"
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", true, perrs.Unauthorizedf("malformed authorization header")
	}
	raw = strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", true, perrs.Unauthorizedf("missing bearer token")
	}
	return raw, true, nil
}
