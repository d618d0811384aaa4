package domain

import (
	"context"

	"certifica/internal/platform/identity"
)

// ServicePort is the certificate lifecycle surface the transport calls
// Identity is always passed explicitly; nothing is read from ctx
type ServicePort interface {
	Submit(ctx context.Context, caller identity.Principal, in SubmitInput, f File) (Certificate, error)
	Validate(ctx context.Context, id string, admin identity.Principal, in ValidateInput) (Certificate, error)
	Get(ctx context.Context, id string) (Certificate, error)
	ListAll(ctx context.Context) ([]Certificate, error)
	ListBySubmitter(ctx context.Context, caller identity.Principal) ([]Certificate, error)
	Delete(ctx context.Context, id string, actor identity.Principal) error
	ViewURL(ctx context.Context, id string) (ViewURL, error)
}
