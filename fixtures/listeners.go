package fixtures

import "sync"

// ListenerSpy is a configurable listener for testing. It records every
// event it is notified with and satisfies mediator.Listener[Ev].
type ListenerSpy[Ev any] struct {
	mu sync.Mutex

	// OnNotify, if set, runs after the event was recorded.
	OnNotify func(event Ev)

	events []Ev
}

// NewListenerSpy creates a new ListenerSpy.
func NewListenerSpy[Ev any]() *ListenerSpy[Ev] {
	return &ListenerSpy[Ev]{}
}

// Notify implements mediator.Listener.
func (s *ListenerSpy[Ev]) Notify(event Ev) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()

	if s.OnNotify != nil {
		s.OnNotify(event)
	}
}

// Events returns a copy of the recorded events, oldest first.
func (s *ListenerSpy[Ev]) Events() []Ev {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Ev, len(s.events))
	copy(out, s.events)
	return out
}

// Calls returns the number of notifications received.
func (s *ListenerSpy[Ev]) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Reset clears all recorded events.
func (s *ListenerSpy[Ev]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// OrderLog records which listener was notified, in call order. It is used
// to check that listeners run in registration order.
type OrderLog struct {
	mu    sync.Mutex
	names []string
}

// Record appends name to the log.
func (l *OrderLog) Record(name string) {
	l.mu.Lock()
	l.names = append(l.names, name)
	l.mu.Unlock()
}

// OrderListener returns a listener function that records name in l.
func OrderListener[Ev any](l *OrderLog, name string) func(Ev) {
	return func(Ev) {
		l.Record(name)
	}
}

// Names returns the recorded names.
func (l *OrderLog) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}
