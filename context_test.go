package mediator

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestContextGetters(t *testing.T) {
	ctxWithReq := withRequest(t.Context(), struct{ N int }{N: 1})
	emptyCtx := t.Context()

	tests := []struct {
		name string
		ctx  context.Context
		fn   func(context.Context) any
		want any
	}{
		{
			name: "RequestTypeFromContext with value",
			ctx:  ctxWithReq,
			fn:   func(ctx context.Context) any { return RequestTypeFromContext(ctx) },
			want: "struct { N int }",
		},
		{
			name: "RequestTypeFromContext without value",
			ctx:  emptyCtx,
			fn:   func(ctx context.Context) any { return RequestTypeFromContext(ctx) },
			want: "",
		},
		{
			name: "RequestIDFromContext without value",
			ctx:  emptyCtx,
			fn:   func(ctx context.Context) any { return RequestIDFromContext(ctx) },
			want: uuid.Nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.ctx)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if RequestIDFromContext(ctxWithReq) == uuid.Nil {
		t.Errorf("RequestIDFromContext returned uuid.Nil for a stamped context")
	}
	if RequestIDFromContext(withRequest(t.Context(), 1)) == RequestIDFromContext(ctxWithReq) {
		t.Errorf("request IDs must be unique per send")
	}
}
