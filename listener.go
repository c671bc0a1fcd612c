package mediator

// Listener is notified with every event drained by Next.
//
// Listeners are invoked synchronously, in registration order, by the
// goroutine that called Next. A listener that panics aborts the fan-out
// and the panic reaches the caller of Next.
type Listener[Ev any] interface {
	Notify(event Ev)
}

// NewListenerFunc creates a Listener from a plain function.
//
// Example Usage:
//
//	l := NewListenerFunc(func(ev OrderPlaced) {
//	    fmt.Println("order placed:", ev.ID)
//	})
func NewListenerFunc[Ev any](fn func(event Ev)) Listener[Ev] {
	return listenerFunc[Ev](fn)
}

// listenerFunc is a function type that implements Listener.
type listenerFunc[Ev any] func(event Ev)

func (f listenerFunc[Ev]) Notify(event Ev) {
	f(event)
}

// listenerRegistry keeps listeners in registration order. It is fixed once
// the mediator is built and is read without locking.
type listenerRegistry[Ev any] []Listener[Ev]

func (r listenerRegistry[Ev]) notify(event Ev) {
	for _, l := range r {
		l.Notify(event)
	}
}
