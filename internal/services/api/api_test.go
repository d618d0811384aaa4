package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"certifica/internal/modkit/module"
	"certifica/internal/platform/blob"
	"certifica/internal/platform/config"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/metrics"
	phttp "certifica/internal/platform/net/http"
	"certifica/internal/platform/queue"
	"certifica/internal/platform/store"
	"certifica/internal/platform/store/storetest"

	"github.com/go-chi/chi/v5"
)

func TestMountRequiresDeps(t *testing.T) {
	t.Parallel()

	r := phttp.AdaptChi(chi.NewRouter())
	if err := Mount(context.Background(), r, Options{}); err == nil {
		t.Fatalf("Mount without a store should fail")
	}
	st := &store.Store{PG: storetest.Tx{}}
	if err := Mount(context.Background(), r, Options{Store: st}); err == nil {
		t.Fatalf("Mount without blob and queue should fail")
	}
	if err := Mount(context.Background(), r, Options{Store: st, Blob: blob.NewMem(""), Queue: queue.NewMem(queue.Config{})}); err == nil {
		t.Fatalf("Mount without a verifier should fail")
	}
}

func TestMountServesSurface(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	v, err := identity.NewVerifier(identity.Config{Secret: []byte("k")})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	mux := chi.NewRouter()
	err = Mount(context.Background(), phttp.AdaptChi(mux), Options{
		Config:        config.New().Prefix("UNSET_"),
		Store:         &store.Store{PG: storetest.Tx{}},
		Blob:          blob.NewMem(""),
		Queue:         queue.NewMem(queue.Config{}),
		Metrics:       metrics.New(),
		Verifier:      v,
		EnableSwagger: true,
	})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	cases := []struct {
		path   string
		status int
	}{
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/swagger/doc.json", http.StatusOK},
		{"/api/v1/meta/version", http.StatusOK},
		{"/api/v1/meta/ready", http.StatusOK},
		{"/api/v1/certificate/my-documents", http.StatusForbidden},
		{"/api/v1/opportunity", http.StatusForbidden},
		{"/debug/pprof/", http.StatusNotFound},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, c.path, nil))
		if rec.Code != c.status {
			t.Fatalf("GET %s = %d, want %d (%s)", c.path, rec.Code, c.status, rec.Body.String())
		}
	}

	if got := strings.Join(module.Names(), ","); got != "audit,certificates,meta,opportunities" {
		t.Fatalf("registered modules = %s", got)
	}
}
