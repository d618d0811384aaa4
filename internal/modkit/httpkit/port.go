package httpkit

import (
	"net/http"

	perrs "certifica/internal/platform/errors"
)

// TokenFunc verifies a bearer token and returns the subject and role it carries
type TokenFunc func(token string) (userID, role string, err error)

// Port implements middleware.AuthPort over a TokenFunc
// Requests without Authorization pass through as anonymous; routes decide whether that is allowed
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a parser function such as identity.Verifier.Parse
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse returns the caller's id and role, empty for anonymous, Unauthorized for a bad token
func (p *Port) Parse(r *http.Request) (string, string, error) {
	raw, present, err := JWT(r)
	if err != nil {
		return "", "", err
	}
	if !present {
		return "", "", nil
	}
	if p == nil || p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	uid, role, err := p.parse(raw)
	if err != nil && perrs.IsCode(err, perrs.ErrorCodeUnauthorized) {
		return "", "", err
	}
	if err != nil || uid == "" {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, role, nil
}
