package mediator

import (
	"context"
	"sync"
)

// CxAwareMediator is a BasicMediator that threads a shared context Cx into
// every request handler.
//
// Handler executions are serialised on the context: at most one handler
// holds it at a time. The event queue is guarded separately, so publishing
// and draining never wait on the context.
//
// A CxAwareMediator is created with NewCxAwareBuilder, which refuses to
// build without a context.
type CxAwareMediator[Cx, Ev any] struct {
	basic *BasicMediator[Ev]

	mu sync.Mutex
	cx Cx

	handlers   handlerSet[cxAwareHandler[Cx, Ev]]
	middleware []Middleware
}

type cxAwareHandler[Cx, Ev any] func(ctx context.Context, m *CxAwareMediator[Cx, Ev], req any, cx Cx) error

// Publish appends event to the event queue of the underlying BasicMediator.
func (m *CxAwareMediator[Cx, Ev]) Publish(event Ev) {
	m.basic.Publish(event)
}

// Next delegates to the underlying BasicMediator.
func (m *CxAwareMediator[Cx, Ev]) Next() error {
	return m.basic.Next()
}

// Send locks the context and invokes the handler registered for the
// concrete type of req with it. The context is unlocked on every exit path,
// including a panicking handler.
func (m *CxAwareMediator[Cx, Ev]) Send(ctx context.Context, req any) error {
	return send(ctx, m.handlers, m.middleware, req, func(ctx context.Context, h cxAwareHandler[Cx, Ev], req any) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		return h(ctx, m, req, m.cx)
	})
}
