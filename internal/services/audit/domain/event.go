// Package domain defines certificate lifecycle events and the sink port
package domain

import (
	"context"
	"time"
)

// Kind names a lifecycle transition
type Kind string

// Event kinds
const (
	KindSubmitted   Kind = "submitted"
	KindValidated   Kind = "validated"
	KindRevalidated Kind = "revalidated"
	KindDeleted     Kind = "deleted"
	KindProcessed   Kind = "processed"
	KindRepublished Kind = "republished"
)

// Event is one row of the audit trail
type Event struct {
	Kind          Kind
	CertificateID string
	Actor         string
	Status        string
	Reason        string
	At            time.Time
}

// Sink records events; implementations never fail the caller
type Sink interface {
	Record(ctx context.Context, e Event)
}
