// Package guardrails keeps processor sweeps single-flight across instances
package guardrails

import (
	"context"
	"fmt"

	"certifica/internal/modkit/repokit"
)

// ErrLeaseHeld signals another processor owns the sweep right now
var ErrLeaseHeld = fmt.Errorf("processor: sweep lease already held")

// Lease runs do while holding a named lease
type Lease func(ctx context.Context, do func(context.Context) error) error

// MakeSweepLease takes a transaction scoped advisory lock keyed by name
// The lock is released when do returns and the transaction ends
func MakeSweepLease(db repokit.TxRunner, name string) Lease {
	if name == "" {
		name = "certifica.sweep"
	}
	return func(ctx context.Context, do func(context.Context) error) error {
		return db.Tx(ctx, func(q repokit.Queryer) error {
			var ok bool
			if err := q.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock(hashtext($1))`, name).Scan(&ok); err != nil {
				return err
			}
			if !ok {
				return ErrLeaseHeld
			}
			return do(ctx)
		})
	}
}
