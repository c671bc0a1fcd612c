package fixtures

import "fmt"

// TestEvent is a configurable test event.
type TestEvent struct {
	ID   string
	Data string
}

func (e TestEvent) String() string { return fmt.Sprintf("TestEvent(%s:%s)", e.ID, e.Data) }

// TestEventBuilder provides a fluent API for constructing test events.
type TestEventBuilder struct {
	id   string
	data string
}

// NewTestEvent creates a new TestEventBuilder with sensible defaults.
func NewTestEvent() *TestEventBuilder {
	return &TestEventBuilder{
		id:   "event-1",
		data: "",
	}
}

// WithID sets the event ID.
func (b *TestEventBuilder) WithID(id string) *TestEventBuilder {
	b.id = id
	return b
}

// WithData sets custom data on the event.
func (b *TestEventBuilder) WithData(data string) *TestEventBuilder {
	b.data = data
	return b
}

// Build constructs the TestEvent.
func (b *TestEventBuilder) Build() TestEvent {
	return TestEvent{
		ID:   b.id,
		Data: b.data,
	}
}

// NumberedEvents returns n events with IDs event-1 .. event-n, in order.
func NumberedEvents(n int) []TestEvent {
	events := make([]TestEvent, n)
	for i := range events {
		events[i] = NewTestEvent().WithID(fmt.Sprintf("event-%d", i+1)).Build()
	}
	return events
}

// Incremented is published after a Counter was incremented.
type Incremented struct {
	Value int64
}

func (e Incremented) String() string { return fmt.Sprintf("Incremented(%d)", e.Value) }
