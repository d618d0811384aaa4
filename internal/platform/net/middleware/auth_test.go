package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "certifica/internal/platform/errors"
	pnet "certifica/internal/platform/net"
	"certifica/internal/platform/net/middleware"
)

type fakeAuth struct {
	user, role string
	err        error
}

func (f fakeAuth) Parse(*http.Request) (string, string, error) { return f.user, f.role, f.err }

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestAuth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		port     middleware.AuthPort
		wantCode int
		wantUser string
		wantRole string
	}{
		{"nil port", nil, http.StatusOK, "", ""},
		{"anonymous", fakeAuth{}, http.StatusOK, "", ""},
		{"user", fakeAuth{user: "ana@uni.br", role: "USER"}, http.StatusOK, "ana@uni.br", "USER"},
		{"bad token", fakeAuth{err: perr.Unauthorizedf("invalid token")}, http.StatusForbidden, "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			var gotUser, gotRole string
			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUser, gotRole = pnet.UserID(r.Context()), pnet.Role(r.Context())
			})
			rr := httptest.NewRecorder()
			middleware.Auth(c.port, writeJSON)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			if rr.Code != c.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, c.wantCode)
			}
			if c.wantCode != http.StatusOK {
				if called {
					t.Fatalf("next should not run on auth failure")
				}
				var w pnet.Wire
				_ = json.NewDecoder(rr.Body).Decode(&w)
				if w.Code != perr.ErrorCodeUnauthorized || w.Error != "invalid token" {
					t.Fatalf("body = %+v", w)
				}
				return
			}
			if gotUser != c.wantUser || gotRole != c.wantRole {
				t.Fatalf("identity = %q/%q", gotUser, gotRole)
			}
		})
	}
}
