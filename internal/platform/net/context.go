// Package net carries request-scoped identity and the error envelope shared by transports
package net

import (
	"context"

	"certifica/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const (
	keyUserID ctxKey = "user_id"
	keyRole   ctxKey = "role"
)

// WithRequest stores the request id where chi's RequestID middleware would put it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID, "", "")
}

// WithUser records the authenticated caller and mirrors it into the log context
func WithUser(ctx context.Context, userID, role string) context.Context {
	if userID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, keyUserID, userID)
	if role != "" {
		ctx = context.WithValue(ctx, keyRole, role)
	}
	return logger.WithRequest(ctx, "", userID, role)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// UserID returns the authenticated user id, "" when anonymous
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(keyUserID).(string)
	return v
}

// Role returns the authenticated caller's role, "" when anonymous
func Role(ctx context.Context) string {
	v, _ := ctx.Value(keyRole).(string)
	return v
}
