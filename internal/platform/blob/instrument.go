package blob

import (
	"context"
	"errors"
	"time"

	"certifica/internal/platform/metrics"
)

type instrumented struct {
	Store
	m *metrics.Metrics
}

// Instrument counts every store call by op and outcome
func Instrument(s Store, m *metrics.Metrics) Store {
	if m == nil {
		return s
	}
	return instrumented{Store: s, m: m}
}

func (i instrumented) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	url, err := i.Store.Put(ctx, key, data, contentType)
	i.m.BlobOp("put", err)
	if err == nil {
		i.m.UploadBytes.WithLabelValues(contentType).Add(float64(len(data)))
	}
	return url, err
}

func (i instrumented) Delete(ctx context.Context, key string) error {
	err := i.Store.Delete(ctx, key)
	i.m.BlobOp("delete", err)
	return err
}

func (i instrumented) Stat(ctx context.Context, key string) (Info, error) {
	info, err := i.Store.Stat(ctx, key)
	if errors.Is(err, ErrNotFound) {
		i.m.BlobOp("stat", nil)
	} else {
		i.m.BlobOp("stat", err)
	}
	return info, err
}

func (i instrumented) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	url, err := i.Store.PresignGet(ctx, key, ttl)
	i.m.BlobOp("presign", err)
	return url, err
}
