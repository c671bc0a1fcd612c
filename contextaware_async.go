package mediator

import "context"

// CxAwareAsyncMediator is the concurrent counterpart of CxAwareMediator.
//
// Uses an underlying BasicAsyncMediator for publishing and draining, and a
// separate lock for the user-defined context Cx. Send waits for the context
// lock, giving up with ctx.Err() if ctx ends first.
//
// Example Usage:
//
//	m, err := NewCxAwareAsyncBuilder[*Stock, Event]().
//	    AddListenerFunc(func(ev Event) { log.Println(ev) }).
//	    AddContext(&Stock{}).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	_ = m.Send(ctx, Reserve{SKU: "A-1"})
//	_ = m.Next(ctx)
type CxAwareAsyncMediator[Cx, Ev any] struct {
	basic *BasicAsyncMediator[Ev]

	cxLock *lock
	cx     Cx

	handlers   handlerSet[cxAwareAsyncHandler[Cx, Ev]]
	middleware []Middleware
}

type cxAwareAsyncHandler[Cx, Ev any] func(ctx context.Context, m *CxAwareAsyncMediator[Cx, Ev], req any, cx Cx) error

// Publish appends event to the event queue of the underlying BasicAsyncMediator.
func (m *CxAwareAsyncMediator[Cx, Ev]) Publish(ctx context.Context, event Ev) error {
	return m.basic.Publish(ctx, event)
}

// Next delegates to the underlying BasicAsyncMediator.
func (m *CxAwareAsyncMediator[Cx, Ev]) Next(ctx context.Context) error {
	return m.basic.Next(ctx)
}

// Send acquires the context and invokes the handler registered for the
// concrete type of req with it. The context is released on every exit path,
// including a panicking handler.
func (m *CxAwareAsyncMediator[Cx, Ev]) Send(ctx context.Context, req any) error {
	return send(ctx, m.handlers, m.middleware, req, func(ctx context.Context, h cxAwareAsyncHandler[Cx, Ev], req any) error {
		if err := m.cxLock.acquire(ctx); err != nil {
			return err
		}
		defer m.cxLock.release()
		return h(ctx, m, req, m.cx)
	})
}
