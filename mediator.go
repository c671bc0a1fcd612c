package mediator

import (
	"context"
	"sync"
)

// Mediator is the runtime contract of the direct execution model: no
// operation yields while waiting for mediator state.
type Mediator[Ev any] interface {
	// Publish appends an event to the tail of the event queue. It is meant
	// to be called from within request handlers.
	Publish(event Ev)

	// Send dispatches req to the handler registered for its concrete type.
	Send(ctx context.Context, req any) error

	// Next removes the oldest pending event and notifies every listener
	// with it. Returns ErrNoEvent if nothing is pending.
	Next() error
}

var (
	_ Mediator[struct{}] = (*BasicMediator[struct{}])(nil)
	_ Mediator[struct{}] = (*CxAwareMediator[struct{}, struct{}])(nil)
)

// BasicMediator decouples request handling from event notification for
// events of type Ev.
//
// Requests are dispatched synchronously to the single handler registered
// for their type. Handlers publish events, which wait in a FIFO queue
// until the caller drains them one at a time with Next.
//
// A BasicMediator is created with NewBuilder and is safe for concurrent
// use. Events still queued when the mediator is discarded are dropped.
//
// Example Usage:
//
//	m := NewBuilder[Event]().
//	    AddListenerFunc(func(ev Event) { fmt.Println(ev) }).
//	    Build()
//	m.Publish(Started{})
//	_ = m.Next()
type BasicMediator[Ev any] struct {
	mu        sync.Mutex
	queue     eventQueue[Ev]
	listeners listenerRegistry[Ev]

	handlers   handlerSet[basicHandler[Ev]]
	middleware []Middleware
}

type basicHandler[Ev any] func(ctx context.Context, m *BasicMediator[Ev], req any) error

func newBasicMediator[Ev any](listeners listenerRegistry[Ev]) *BasicMediator[Ev] {
	return &BasicMediator[Ev]{
		listeners: listeners,
		handlers:  newHandlerSet[basicHandler[Ev]](),
	}
}

// Publish appends event to the event queue. It always succeeds.
func (m *BasicMediator[Ev]) Publish(event Ev) {
	m.mu.Lock()
	m.queue.push(event)
	m.mu.Unlock()
}

// Next removes exactly one event from the head of the queue and notifies
// all listeners with it, in registration order.
//
// The queue is not locked during fan-out, so listeners may publish. Events
// published that way are delivered by a later call to Next.
//
// Returns:
//   - ErrNoEvent: the queue was empty and no listener was invoked.
//   - nil: an event was delivered to every listener.
func (m *BasicMediator[Ev]) Next() error {
	m.mu.Lock()
	event, ok := m.queue.tryPop()
	m.mu.Unlock()

	if !ok {
		return ErrNoEvent
	}

	m.listeners.notify(event)
	return nil
}

// Send invokes the handler registered for the concrete type of req,
// wrapped in the configured middleware.
//
// Returns an error wrapping ErrHandlerNotFound if no handler is registered,
// otherwise whatever the handler chain returns. Panics are not recovered.
func (m *BasicMediator[Ev]) Send(ctx context.Context, req any) error {
	return send(ctx, m.handlers, m.middleware, req, func(ctx context.Context, h basicHandler[Ev], req any) error {
		return h(ctx, m, req)
	})
}

// send resolves the handler for req and runs invoke inside the middleware
// chain. Shared by all mediator flavours.
func send[H any](
	ctx context.Context,
	handlers handlerSet[H],
	middleware []Middleware,
	req any,
	invoke func(ctx context.Context, h H, req any) error,
) error {
	h, err := handlers.lookup(req)
	if err != nil {
		return err
	}

	final := func(ctx context.Context, req any) error {
		return invoke(ctx, h, req)
	}

	return chain(middleware, final)(withRequest(ctx, req), req)
}
