// Package domain defines the processor's public ports and outcomes
package domain

import (
	"context"

	"certifica/internal/platform/queue"
)

// Outcomes recorded on processed_total
const (
	OutcomeOK          = "ok"
	OutcomeMalformed   = "malformed"
	OutcomeGone        = "gone"
	OutcomeDuplicate   = "duplicate"
	OutcomeMissingBlob = "missing_blob"
	OutcomeRetry       = "retry"
)

// HandlerPort verifies one processing message
// A nil return acknowledges the message; an error asks the queue to redeliver it
type HandlerPort interface {
	Handle(ctx context.Context, m queue.Message) error
}

// SweeperPort republishes certificates whose publish never landed
type SweeperPort interface {
	// Sweep returns how many certificates were republished
	Sweep(ctx context.Context) (int, error)
}

// RunnerPort is what the processor binary drives
type RunnerPort interface {
	HandlerPort
	SweeperPort

	// Run consumes the topic and schedules the sweep until ctx is done
	Run(ctx context.Context) error
}
