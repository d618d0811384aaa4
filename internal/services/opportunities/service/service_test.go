package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"certifica/internal/modkit/repokit"
	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/store/storetest"
	kit "certifica/internal/platform/testkit"
	"certifica/internal/services/opportunities/domain"
	"certifica/internal/services/opportunities/repo"
)

// memRepo mirrors the SQL semantics closely enough for the workflows
type memRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Opportunity
}

func (m *memRepo) Insert(_ context.Context, o domain.Opportunity) (domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.UpdatedAt = o.CreatedAt
	o.Applicants = []string{}
	m.rows[o.ID] = o
	return o, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return o, perr.NotFoundf("opportunity not found")
	}
	return o, nil
}

func (m *memRepo) List(context.Context) ([]domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Opportunity, 0, len(m.rows))
	for _, o := range m.rows {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, id string, p domain.Patch) (domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return o, perr.NotFoundf("opportunity not found")
	}
	o.Title, o.Description, o.Hours, o.UpdatedAt = p.Title, p.Description, p.Hours, p.At
	if p.Status != nil {
		o.Status = *p.Status
	}
	m.rows[id] = o
	return o, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return perr.NotFoundf("opportunity not found")
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) AddApplicant(_ context.Context, id, who string, at time.Time) (domain.Opportunity, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok || o.Status != domain.StatusOpen {
		return domain.Opportunity{}, false, nil
	}
	for _, a := range o.Applicants {
		if a == who {
			return o, true, nil
		}
	}
	o.Applicants = append(append([]string(nil), o.Applicants...), who)
	o.UpdatedAt = at
	m.rows[id] = o
	return o, true, nil
}

var (
	ana   = identity.Principal{Subject: "ana@ufu.br", Role: identity.RoleUser}
	admin = identity.Principal{Subject: "coord@ufu.br", Role: identity.RoleAdmin}
)

func newSvc(t *testing.T) *Svc {
	t.Helper()
	m := &memRepo{rows: map[string]domain.Opportunity{}}
	b := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return New(storetest.Tx{}, b, func() time.Time { return now })
}

func TestNewPanics(t *testing.T) {
	t.Parallel()

	kit.MustPanic(t, func() { New(nil, repo.NewPG(), nil) })
	kit.MustPanic(t, func() { New(storetest.Tx{}, nil, nil) })
}

func TestCreateAndRead(t *testing.T) {
	t.Parallel()
	s := newSvc(t)
	ctx := context.Background()

	o, err := s.Create(ctx, admin, domain.CreateInput{Title: " Monitoria  de Algoritmos ", Hours: 40})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.Status != domain.StatusOpen || o.CreatedBy != admin.Subject || o.Title != "Monitoria de Algoritmos" {
		t.Fatalf("created = %+v", o)
	}
	if len(o.Applicants) != 0 {
		t.Fatalf("applicants = %v", o.Applicants)
	}
	got, err := s.Get(ctx, o.ID)
	if err != nil || got.ID != o.ID {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	all, _ := s.List(ctx)
	if len(all) != 1 {
		t.Fatalf("List = %d", len(all))
	}

	if _, err := s.Create(ctx, identity.Principal{}, domain.CreateInput{Title: "x", Hours: 1}); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("anonymous Create = %v", err)
	}
	if _, err := s.Create(ctx, ana, domain.CreateInput{Title: "x", Hours: 0}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("zero hours = %v", err)
	}
}

func TestApplyIsIdempotentAndRespectsStatus(t *testing.T) {
	t.Parallel()
	s := newSvc(t)
	ctx := context.Background()
	o, _ := s.Create(ctx, admin, domain.CreateInput{Title: "Extensao", Hours: 10})

	for i := 0; i < 2; i++ {
		got, err := s.Apply(ctx, o.ID, ana)
		if err != nil {
			t.Fatalf("Apply #%d: %v", i, err)
		}
		if len(got.Applicants) != 1 || got.Applicants[0] != ana.Subject {
			t.Fatalf("applicants after #%d = %v", i, got.Applicants)
		}
	}

	closed := "closed"
	if _, err := s.Update(ctx, o.ID, admin, domain.UpdateInput{Title: "Extensao", Hours: 10, Status: &closed}); err != nil {
		t.Fatalf("close: %v", err)
	}
	bia := identity.Principal{Subject: "bia@ufu.br", Role: identity.RoleUser}
	if _, err := s.Apply(ctx, o.ID, bia); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("Apply closed = %v, want conflict", err)
	}
	if _, err := s.Apply(ctx, "5f0e8d0c-7c84-4b8a-9d3a-1f2e3d4c5b6a", bia); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("Apply missing = %v", err)
	}
	if _, err := s.Apply(ctx, o.ID, identity.Principal{}); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("Apply anonymous = %v", err)
	}
}

func TestAdminOnlyMutations(t *testing.T) {
	t.Parallel()
	s := newSvc(t)
	ctx := context.Background()
	o, _ := s.Create(ctx, admin, domain.CreateInput{Title: "Pesquisa", Hours: 20})

	in := domain.UpdateInput{Title: "Pesquisa II", Description: "lab", Hours: 30}
	if _, err := s.Update(ctx, o.ID, ana, in); !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("user Update = %v", err)
	}
	if err := s.Delete(ctx, o.ID, ana); !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("user Delete = %v", err)
	}
	bad := "ARCHIVED"
	if _, err := s.Update(ctx, o.ID, admin, domain.UpdateInput{Title: "x", Hours: 1, Status: &bad}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad status = %v", err)
	}

	got, err := s.Update(ctx, o.ID, admin, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Pesquisa II" || got.Hours != 30 || got.Status != domain.StatusOpen {
		t.Fatalf("updated = %+v", got)
	}
	if err := s.Delete(ctx, o.ID, admin); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, o.ID, admin); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("second Delete = %v", err)
	}
}
