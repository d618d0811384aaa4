// Package domain holds the opportunity model and its ports
package domain

import (
	"context"
	"strings"
	"time"

	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
)

// Status is whether an opportunity accepts applicants
type Status string

// Statuses
const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// ParseStatus accepts OPEN or CLOSED in any case
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if st != StatusOpen && st != StatusClosed {
		return "", perr.FieldErrf("status", "status must be OPEN or CLOSED")
	}
	return st, nil
}

// Opportunity is an activity students can apply to
type Opportunity struct {
	ID          string    `json:"id"          example:"5f0e8d0c-7c84-4b8a-9d3a-1f2e3d4c5b6a"`
	Title       string    `json:"title"       example:"Monitoria de Algoritmos"`
	Description string    `json:"description" example:"Two afternoons a week in the lab"`
	Hours       int       `json:"hours"       example:"40"`
	CreatedBy   string    `json:"createdBy"   example:"coord@ufu.br"`
	Status      Status    `json:"status"      example:"OPEN"`
	Applicants  []string  `json:"applicants"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput is the body of a new opportunity
type CreateInput struct {
	Title       string `json:"title"       validate:"required,nonblank,max=200" example:"Monitoria de Algoritmos"`
	Description string `json:"description" validate:"max=4000"                  example:"Two afternoons a week in the lab"`
	Hours       int    `json:"hours"       validate:"gt=0"                      example:"40"`
}

// UpdateInput replaces title, description and hours; Status is optional
type UpdateInput struct {
	Title       string  `json:"title"            validate:"required,nonblank,max=200"`
	Description string  `json:"description"      validate:"max=4000"`
	Hours       int     `json:"hours"            validate:"gt=0"`
	Status      *string `json:"status,omitempty" example:"CLOSED"`
}

// Patch is the store-level update
type Patch struct {
	Title       string
	Description string
	Hours       int
	Status      *Status
	At          time.Time
}

// ServicePort is the opportunity surface the transport calls
type ServicePort interface {
	Create(ctx context.Context, caller identity.Principal, in CreateInput) (Opportunity, error)
	List(ctx context.Context) ([]Opportunity, error)
	Get(ctx context.Context, id string) (Opportunity, error)
	Update(ctx context.Context, id string, admin identity.Principal, in UpdateInput) (Opportunity, error)
	Delete(ctx context.Context, id string, admin identity.Principal) error
	Apply(ctx context.Context, id string, caller identity.Principal) (Opportunity, error)
}
