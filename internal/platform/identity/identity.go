// Package identity verifies bearer tokens and yields the caller's principal
package identity

import (
	"errors"
	"strings"
	"time"

	"certifica/internal/platform/config"
	perr "certifica/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Roles understood by the API
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Principal is the authenticated caller
// Subject is the stable identity string recorded as submitter, validator and applicant
type Principal struct {
	Subject string
	Role    string
}

// IsZero reports an anonymous caller
func (p Principal) IsZero() bool { return p.Subject == "" }

// IsAdmin reports whether the caller holds the admin role
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Config configures token verification
type Config struct {
	Secret      []byte
	Issuer      string
	Audience    string
	Leeway      time.Duration
	DefaultRole string
}

// FromConfig reads AUTH_JWT_SECRET, AUTH_JWT_ISSUER, AUTH_JWT_AUDIENCE, AUTH_LEEWAY and AUTH_DEFAULT_ROLE
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("AUTH_")
	return Config{
		Secret:      []byte(c.MustString("JWT_SECRET")),
		Issuer:      c.MayString("JWT_ISSUER", ""),
		Audience:    c.MayString("JWT_AUDIENCE", ""),
		Leeway:      c.MayDuration("LEEWAY", 30*time.Second),
		DefaultRole: strings.ToUpper(c.MayEnum("DEFAULT_ROLE", "user", RoleUser, RoleAdmin)),
	}
}

// Claims are the token claims; sub carries the identity and role the authorization level
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens
type Verifier struct {
	cfg    Config
	parser *jwt.Parser
}

// NewVerifier returns an error when no secret is configured
func NewVerifier(cfg Config) (*Verifier, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("identity: empty jwt secret")
	}
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = RoleUser
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Verifier{cfg: cfg, parser: jwt.NewParser(opts...)}, nil
}

// Verify parses and validates a raw token
func (v *Verifier) Verify(raw string) (Principal, error) {
	var claims Claims
	_, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return v.cfg.Secret, nil })
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, perr.Wrap(err, perr.ErrorCodeUnauthorized, "token expired")
		}
		return Principal{}, perr.Wrap(err, perr.ErrorCodeUnauthorized, "invalid bearer token")
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return Principal{}, perr.Unauthorizedf("token has no subject")
	}
	role := strings.ToUpper(strings.TrimSpace(claims.Role))
	switch role {
	case "":
		role = v.cfg.DefaultRole
	case RoleAdmin, RoleUser:
	default:
		return Principal{}, perr.Unauthorizedf("unknown role %q", claims.Role)
	}
	return Principal{Subject: sub, Role: role}, nil
}

// Parse adapts Verify to the (userID, role, err) shape the HTTP auth port expects
func (v *Verifier) Parse(raw string) (string, string, error) {
	p, err := v.Verify(raw)
	return p.Subject, p.Role, err
}

// Issue signs a token for p; used by tests and local tooling
func (v *Verifier) Issue(p Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			Issuer:    v.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{v.cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.cfg.Secret)
}
