// Package repotest provides an in-memory certificate repo for service and worker tests
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"certifica/internal/modkit/repokit"
	perr "certifica/internal/platform/errors"
	"certifica/internal/services/certificates/domain"
	"certifica/internal/services/certificates/repo"

	"github.com/google/uuid"
)

// Memory implements repo.Repo over a map with the same uniqueness rules as the table
type Memory struct {
	mu   sync.Mutex
	rows map[string]domain.Certificate

	// FailInsert, FailDelete and FailMarkEnqueued force the next matching call to fail
	FailInsert       error
	FailDelete       error
	FailMarkEnqueued error

	Calls map[string]int
}

var _ repo.Repo = (*Memory)(nil)

// NewMemory returns an empty repo
func NewMemory() *Memory {
	return &Memory{rows: map[string]domain.Certificate{}, Calls: map[string]int{}}
}

// Binder binds every Queryer to the same Memory
func (m *Memory) Binder() repokit.Binder[repo.Repo] {
	return repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
}

// Count returns how many times op was called
func (m *Memory) Count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}

// Len returns the number of stored rows
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Put stores c as is, for seeding
func (m *Memory) Put(c domain.Certificate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = c
}

func (m *Memory) call(op string) { m.Calls[op]++ }

func take(p *error) error {
	err := *p
	*p = nil
	return err
}

func (m *Memory) find(id string) (domain.Certificate, error) {
	c, ok := m.rows[id]
	if !ok {
		return domain.Certificate{}, perr.NotFoundf("certificate %s not found", id)
	}
	return c, nil
}

func (m *Memory) Insert(_ context.Context, n domain.NewCertificate) (domain.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("Insert")
	if err := take(&m.FailInsert); err != nil {
		return domain.Certificate{}, err
	}
	for _, c := range m.rows {
		if c.SubmittedBy == n.SubmittedBy && c.Title == n.Title && c.Category == n.Category {
			return domain.Certificate{}, perr.DuplicateKeyf("a certificate with this title and category was already submitted")
		}
	}
	c := domain.Certificate{
		ID:               uuid.NewString(),
		SubmittedBy:      n.SubmittedBy,
		Title:            n.Title,
		Category:         n.Category,
		DurationInHours:  n.DurationInHours,
		ExpirationDate:   n.ExpirationDate,
		ObjectKey:        n.ObjectKey,
		FileURL:          n.FileURL,
		OriginalFilename: n.OriginalFilename,
		FileType:         n.FileType,
		SizeBytes:        n.SizeBytes,
		Checksum:         n.Checksum,
		Status:           domain.StatusPending,
		UploadTimestamp:  n.UploadedAt,
		UpdatedAt:        n.UploadedAt,
	}
	m.rows[c.ID] = c
	return c, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (domain.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("GetByID")
	return m.find(id)
}

func (m *Memory) ExistsByTriple(_ context.Context, by, title string, cat domain.Category) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("ExistsByTriple")
	for _, c := range m.rows {
		if c.SubmittedBy == by && c.Title == title && c.Category == cat {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) list(keep func(domain.Certificate) bool) []domain.Certificate {
	out := make([]domain.Certificate, 0, len(m.rows))
	for _, c := range m.rows {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadTimestamp.After(out[j].UploadTimestamp) })
	return out
}

func (m *Memory) ListAll(context.Context) ([]domain.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("ListAll")
	return m.list(func(domain.Certificate) bool { return true }), nil
}

func (m *Memory) ListBySubmitter(_ context.Context, by string) ([]domain.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("ListBySubmitter")
	return m.list(func(c domain.Certificate) bool { return c.SubmittedBy == by }), nil
}

func (m *Memory) ApplyValidation(_ context.Context, id string, v domain.Validation) (domain.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("ApplyValidation")
	c, err := m.find(id)
	if err != nil {
		return c, err
	}
	at := v.At
	by := v.ValidatedBy
	c.Status = v.Status
	c.ValidatedBy = &by
	c.RejectionReason = v.Reason
	c.ValidationTimestamp = &at
	c.UpdatedAt = at
	m.rows[id] = c
	return c, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("Delete")
	if err := take(&m.FailDelete); err != nil {
		return err
	}
	if _, err := m.find(id); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

func (m *Memory) MarkEnqueued(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("MarkEnqueued")
	if err := take(&m.FailMarkEnqueued); err != nil {
		return err
	}
	c, err := m.find(id)
	if err != nil {
		return err
	}
	c.EnqueuedAt = &at
	m.rows[id] = c
	return nil
}

func (m *Memory) MarkProcessed(_ context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("MarkProcessed")
	c, err := m.find(id)
	if err != nil {
		return false, err
	}
	if c.ProcessedAt != nil {
		return false, nil
	}
	c.ProcessedAt = &at
	m.rows[id] = c
	return true, nil
}

func (m *Memory) ListStalePending(_ context.Context, olderThan time.Time, limit int) ([]domain.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("ListStalePending")
	out := m.list(func(c domain.Certificate) bool {
		return c.Status == domain.StatusPending && c.EnqueuedAt == nil && c.UploadTimestamp.Before(olderThan)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UploadTimestamp.Before(out[j].UploadTimestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
