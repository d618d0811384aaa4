package store

import (
	"errors"

	"certifica/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by the pg and ch clients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithPG installs an already opened postgres seam; Open then skips dialing
// Integration tests use it to share one container pool across packages
func WithPG(pg TxRunner) Option {
	return func(s *Store) error {
		if pg == nil {
			return errors.New("store: WithPG given a nil seam")
		}
		s.PG = pg
		return nil
	}
}
