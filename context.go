package mediator

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	requestIDKey   ctxKey = "requestID"
	requestTypeKey ctxKey = "requestType"
)

// withRequest stamps ctx with the identity of the request being sent.
func withRequest(ctx context.Context, req any) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, uuid.New())
	ctx = context.WithValue(ctx, requestTypeKey, TypeName(req))
	return ctx
}

// RequestIDFromContext returns the ID assigned by Send or uuid.Nil if not present
func RequestIDFromContext(ctx context.Context) uuid.UUID {
	if v := ctx.Value(requestIDKey); v != nil {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// RequestTypeFromContext returns the type name of the request being sent or "" if not present
func RequestTypeFromContext(ctx context.Context) string {
	if v := ctx.Value(requestTypeKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
