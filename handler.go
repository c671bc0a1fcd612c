package mediator

import (
	"context"
	"fmt"
	"reflect"
)

// RequestHandler handles requests of type Req for a BasicMediator.
//
// Req must be a concrete type; Send routes on the dynamic type of the
// request it receives. Any outcome the handler wants to broadcast is
// published through m.
//
// Example Usage:
//
//	Register(b, func(ctx context.Context, m *BasicMediator[Event], req PlaceOrder) error {
//	    m.Publish(OrderPlaced{ID: req.ID})
//	    return nil
//	})
type RequestHandler[Req, Ev any] func(ctx context.Context, m *BasicMediator[Ev], req Req) error

// AsyncRequestHandler handles requests of type Req for a BasicAsyncMediator.
type AsyncRequestHandler[Req, Ev any] func(ctx context.Context, m *BasicAsyncMediator[Ev], req Req) error

// CxAwareRequestHandler handles requests of type Req for a CxAwareMediator.
// It runs while the mediator holds exclusive access to cx.
//
// Calling m.Send from inside the handler deadlocks, since the context is
// already held.
type CxAwareRequestHandler[Cx, Req, Ev any] func(ctx context.Context, m *CxAwareMediator[Cx, Ev], req Req, cx Cx) error

// CxAwareAsyncRequestHandler handles requests of type Req for a
// CxAwareAsyncMediator. It runs while the mediator holds exclusive access
// to cx.
type CxAwareAsyncRequestHandler[Cx, Req, Ev any] func(ctx context.Context, m *CxAwareAsyncMediator[Cx, Ev], req Req, cx Cx) error

// HandlerFunc is the type-erased form of a resolved request handler, as
// seen by middleware.
type HandlerFunc func(ctx context.Context, req any) error

// Middleware wraps handler execution with cross-cutting concerns such as
// logging, telemetry, retries or rate limiting. It runs outside the
// context lock of a context-aware mediator.
type Middleware func(ctx context.Context, req any, next HandlerFunc) error

// chain composes middleware around final. The first middleware is the
// outermost.
func chain(middleware []Middleware, final HandlerFunc) HandlerFunc {
	h := final
	for i := len(middleware) - 1; i >= 0; i-- {
		mw, next := middleware[i], h
		h = func(ctx context.Context, req any) error {
			return mw(ctx, req, next)
		}
	}
	return h
}

// handlerSet maps a concrete request type to its type-erased handler.
type handlerSet[H any] struct {
	byType map[reflect.Type]H
}

func newHandlerSet[H any]() handlerSet[H] {
	return handlerSet[H]{byType: make(map[reflect.Type]H)}
}

// add registers h for t. Panics if a handler is already registered.
func (s handlerSet[H]) add(t reflect.Type, h H) {
	if _, exists := s.byType[t]; exists {
		panic(fmt.Errorf("handler already registered for request type %s: %w", t, ErrDuplicateHandler))
	}
	s.byType[t] = h
}

func (s handlerSet[H]) lookup(req any) (H, error) {
	h, ok := s.byType[reflect.TypeOf(req)]
	if !ok {
		return h, fmt.Errorf("no handler registered for request %s: %w", TypeName(req), ErrHandlerNotFound)
	}
	return h, nil
}

// typeOf returns the registration key for Req.
func typeOf[Req any]() reflect.Type {
	return reflect.TypeFor[Req]()
}

// mustCast converts a type-erased request back to Req. The handler set
// guarantees the dynamic type matches.
func mustCast[Req any](req any) Req {
	r, ok := req.(Req)
	if !ok {
		panic(fmt.Sprintf("mediator: expected request type %s but got %T", typeOf[Req](), req))
	}
	return r
}
