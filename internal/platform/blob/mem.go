package blob

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memObject struct {
	data        []byte
	contentType string
	mod         time.Time
}

// Mem is an in-process Store for tests and local runs
type Mem struct {
	mu      sync.RWMutex
	objs    map[string]memObject
	baseURL string

	// FailPut and FailDelete force errors on the next matching call
	FailPut    error
	FailDelete error
}

// NewMem returns an empty store; URLs are rooted at baseURL or mem://certificates
func NewMem(baseURL string) *Mem {
	if baseURL == "" {
		baseURL = "mem://certificates"
	}
	return &Mem{objs: map[string]memObject{}, baseURL: baseURL}
}

func (m *Mem) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailPut; err != nil {
		m.FailPut = nil
		return "", err
	}
	m.objs[key] = memObject{data: append([]byte(nil), data...), contentType: contentType, mod: time.Now()}
	return joinURL(m.baseURL, key), nil
}

func (m *Mem) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailDelete; err != nil {
		m.FailDelete = nil
		return err
	}
	delete(m.objs, key)
	return nil
}

func (m *Mem) Stat(_ context.Context, key string) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objs[key]
	if !ok {
		return Info{}, ErrNotFound
	}
	return Info{Key: key, Size: int64(len(o.data)), ContentType: o.contentType, ModTime: o.mod}, nil
}

func (m *Mem) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := m.Stat(ctx, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s?expires=%d", joinURL(m.baseURL, key), time.Now().Add(ttl).Unix()), nil
}

func (m *Mem) Health(context.Context) error { return nil }

// Bytes returns a copy of the stored object, for assertions
func (m *Mem) Bytes(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objs[key]
	return append([]byte(nil), o.data...), ok
}

// Len reports how many objects are stored
func (m *Mem) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objs)
}
