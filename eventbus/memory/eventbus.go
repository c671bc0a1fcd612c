package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/terraskye/mediator"
)

var (
	// ErrClosed is returned by Subscribe after Close.
	ErrClosed = errors.New("eventbus is closed")

	// ErrDuplicateSubscriber is returned when a subscriber name is reused.
	ErrDuplicateSubscriber = errors.New("subscriber already registered")
)

// Handler processes events delivered to a subscriber.
type Handler[Ev any] interface {
	Handle(ctx context.Context, event Ev) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[Ev any] func(ctx context.Context, event Ev) error

func (f HandlerFunc[Ev]) Handle(ctx context.Context, event Ev) error {
	return f(ctx, event)
}

type subscriber[Ev any] struct {
	name    string
	filter  func(Ev) bool
	handler Handler[Ev]
	events  chan Ev
	cancel  context.CancelFunc
}

// EventBus fans events out to named subscribers, each served by its own
// goroutine. It implements mediator.Listener so it can be registered on any
// mediator builder; delivery never blocks the mediator's Next.
type EventBus[Ev any] struct {
	mu         sync.RWMutex
	subs       map[string]*subscriber[Ev]
	closed     bool
	done       chan struct{}
	errs       chan error
	wg         sync.WaitGroup
	bufferSize int
}

var _ mediator.Listener[struct{}] = (*EventBus[struct{}])(nil)

// NewEventBus constructs a new bus with a given subscriber buffer size.
func NewEventBus[Ev any](bufferSize int) *EventBus[Ev] {
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &EventBus[Ev]{
		subs:       make(map[string]*subscriber[Ev]),
		done:       make(chan struct{}),
		errs:       make(chan error, 64),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a handler with a filter and name. A nil filter matches
// every event. The subscription ends when ctx is done or the bus is closed.
func (b *EventBus[Ev]) Subscribe(
	ctx context.Context,
	name string,
	filter func(Ev) bool,
	handler Handler[Ev],
) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}
	if filter == nil {
		filter = func(Ev) bool { return true }
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	if _, exists := b.subs[name]; exists {
		return fmt.Errorf("subscriber %q: %w", name, ErrDuplicateSubscriber)
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	s := &subscriber[Ev]{
		name:    name,
		filter:  filter,
		handler: handler,
		events:  make(chan Ev, b.bufferSize),
		cancel:  cancel,
	}

	b.subs[name] = s

	b.wg.Add(1)
	go b.runSubscriber(workerCtx, s)

	go func() {
		select {
		case <-ctx.Done():
			b.removeSubscriber(s)
		case <-b.done:
		}
	}()

	return nil
}

// Errors reports handler failures and recovered handler panics. Errors are
// dropped while the channel is full. The channel is closed by Close.
func (b *EventBus[Ev]) Errors() <-chan error {
	return b.errs
}

// Close shuts down the bus and waits for all workers.
func (b *EventBus[Ev]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)

	for name, s := range b.subs {
		s.cancel()
		close(s.events)
		delete(b.subs, name)
	}
	b.mu.Unlock()

	b.wg.Wait()

	close(b.errs)

	return nil
}

// Notify offers event to every matching subscriber. A subscriber whose
// buffer is full misses the event.
func (b *EventBus[Ev]) Notify(event Ev) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, s := range b.subs {
		if s.filter(event) {
			select {
			case s.events <- event:
			default:
				// Drop event if subscriber is busy
			}
		}
	}
}

// runSubscriber processes events for a single handler.
func (b *EventBus[Ev]) runSubscriber(ctx context.Context, s *subscriber[Ev]) {
	defer b.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-s.events:
			if !ok {
				return
			}
			if err := b.handle(ctx, s, ev); err != nil {
				select {
				case b.errs <- err:
				default:
					// Drop error if channel full
				}
			}
		}
	}
}

func (b *EventBus[Ev]) handle(ctx context.Context, s *subscriber[Ev], ev Ev) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %q: panic handling %s: %v", s.name, mediator.TypeName(ev), r)
		}
	}()
	if err := s.handler.Handle(ctx, ev); err != nil {
		return fmt.Errorf("handler %q: %w", s.name, err)
	}
	return nil
}

func (b *EventBus[Ev]) removeSubscriber(s *subscriber[Ev]) {
	b.mu.Lock()
	if b.subs[s.name] != s {
		b.mu.Unlock()
		return
	}
	delete(b.subs, s.name)
	b.mu.Unlock()

	s.cancel()
	close(s.events)
}
