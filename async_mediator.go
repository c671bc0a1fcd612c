package mediator

import "context"

// AsyncMediator is the runtime contract of the concurrent execution model.
// Operations may block while another goroutine holds the event queue or
// the context, and give up with ctx.Err() if ctx ends first. An abandoned
// operation has no effect.
type AsyncMediator[Ev any] interface {
	Publish(ctx context.Context, event Ev) error
	Send(ctx context.Context, req any) error
	Next(ctx context.Context) error
}

var (
	_ AsyncMediator[struct{}] = (*BasicAsyncMediator[struct{}])(nil)
	_ AsyncMediator[struct{}] = (*CxAwareAsyncMediator[struct{}, struct{}])(nil)
)

// BasicAsyncMediator is the concurrent counterpart of BasicMediator.
// It is created with NewAsyncBuilder.
type BasicAsyncMediator[Ev any] struct {
	queueLock *lock
	queue     eventQueue[Ev]
	listeners listenerRegistry[Ev]

	handlers   handlerSet[asyncHandler[Ev]]
	middleware []Middleware
}

type asyncHandler[Ev any] func(ctx context.Context, m *BasicAsyncMediator[Ev], req any) error

func newBasicAsyncMediator[Ev any](listeners listenerRegistry[Ev]) *BasicAsyncMediator[Ev] {
	return &BasicAsyncMediator[Ev]{
		queueLock: newLock(),
		listeners: listeners,
		handlers:  newHandlerSet[asyncHandler[Ev]](),
	}
}

// Publish appends event to the event queue once exclusive access to the
// queue is obtained.
func (m *BasicAsyncMediator[Ev]) Publish(ctx context.Context, event Ev) error {
	if err := m.queueLock.acquire(ctx); err != nil {
		return err
	}
	m.queue.push(event)
	m.queueLock.release()
	return nil
}

// Next removes the oldest event and notifies all listeners with it, in
// registration order. The queue lock is released before fan-out.
//
// Returns ErrNoEvent if the queue was empty, or ctx.Err() if ctx ended
// while waiting for the queue.
func (m *BasicAsyncMediator[Ev]) Next(ctx context.Context) error {
	if err := m.queueLock.acquire(ctx); err != nil {
		return err
	}
	event, ok := m.queue.tryPop()
	m.queueLock.release()

	if !ok {
		return ErrNoEvent
	}

	m.listeners.notify(event)
	return nil
}

// Send invokes the handler registered for the concrete type of req,
// wrapped in the configured middleware.
func (m *BasicAsyncMediator[Ev]) Send(ctx context.Context, req any) error {
	return send(ctx, m.handlers, m.middleware, req, func(ctx context.Context, h asyncHandler[Ev], req any) error {
		return h(ctx, m, req)
	})
}
