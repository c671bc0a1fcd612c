package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraskye/mediator"
	"github.com/terraskye/mediator/fixtures"
)

func collect(ch chan fixtures.TestEvent) HandlerFunc[fixtures.TestEvent] {
	return func(ctx context.Context, ev fixtures.TestEvent) error {
		ch <- ev
		return nil
	}
}

func receive(t *testing.T, ch <-chan fixtures.TestEvent) fixtures.TestEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return fixtures.TestEvent{}
	}
}

func TestEventBus_DeliversThroughMediator(t *testing.T) {
	bus := NewEventBus[fixtures.TestEvent](8)
	defer bus.Close()

	got := make(chan fixtures.TestEvent, 8)
	require.NoError(t, bus.Subscribe(context.Background(), "projector", nil, collect(got)))

	m := mediator.NewBuilder[fixtures.TestEvent]().AddListener(bus).Build()
	for _, ev := range fixtures.NumberedEvents(3) {
		m.Publish(ev)
	}
	for m.Next() == nil {
	}

	for _, want := range fixtures.NumberedEvents(3) {
		assert.Equal(t, want, receive(t, got))
	}
}

func TestEventBus_Filter(t *testing.T) {
	bus := NewEventBus[fixtures.TestEvent](8)
	defer bus.Close()

	got := make(chan fixtures.TestEvent, 8)
	onlyTwo := func(ev fixtures.TestEvent) bool { return ev.ID == "event-2" }
	require.NoError(t, bus.Subscribe(context.Background(), "filtered", onlyTwo, collect(got)))

	for _, ev := range fixtures.NumberedEvents(3) {
		bus.Notify(ev)
	}

	assert.Equal(t, "event-2", receive(t, got).ID)
	select {
	case ev := <-got:
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_Subscribe(t *testing.T) {
	bus := NewEventBus[fixtures.TestEvent](1)
	noop := HandlerFunc[fixtures.TestEvent](func(context.Context, fixtures.TestEvent) error { return nil })

	require.NoError(t, bus.Subscribe(context.Background(), "a", nil, noop))
	assert.ErrorIs(t, bus.Subscribe(context.Background(), "a", nil, noop), ErrDuplicateSubscriber)
	assert.Error(t, bus.Subscribe(context.Background(), "b", nil, nil))

	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Subscribe(context.Background(), "c", nil, noop), ErrClosed)
	assert.NoError(t, bus.Close())
}

func TestEventBus_HandlerErrorsAndPanics(t *testing.T) {
	bus := NewEventBus[fixtures.TestEvent](8)
	fail := errors.New("projection failed")

	require.NoError(t, bus.Subscribe(context.Background(), "failing", nil,
		HandlerFunc[fixtures.TestEvent](func(ctx context.Context, ev fixtures.TestEvent) error {
			if ev.ID == "event-1" {
				return fail
			}
			panic("corrupt state")
		}),
	))

	for _, ev := range fixtures.NumberedEvents(2) {
		bus.Notify(ev)
	}

	var errs []error
	for len(errs) < 2 {
		select {
		case err := <-bus.Errors():
			errs = append(errs, err)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for handler errors")
		}
	}

	assert.ErrorIs(t, errs[0], fail)
	assert.Contains(t, errs[0].Error(), `handler "failing"`)
	assert.Contains(t, errs[1].Error(), "corrupt state")

	require.NoError(t, bus.Close())
	_, open := <-bus.Errors()
	assert.False(t, open)
}

func TestEventBus_DropsWhenSubscriberBusy(t *testing.T) {
	bus := NewEventBus[fixtures.TestEvent](1)
	defer bus.Close()

	started := make(chan struct{})
	gate := make(chan struct{})
	got := make(chan fixtures.TestEvent, 8)
	require.NoError(t, bus.Subscribe(context.Background(), "slow", nil,
		HandlerFunc[fixtures.TestEvent](func(ctx context.Context, ev fixtures.TestEvent) error {
			if ev.ID == "event-1" {
				close(started)
				<-gate
			}
			got <- ev
			return nil
		}),
	))

	events := fixtures.NumberedEvents(3)
	bus.Notify(events[0])
	<-started
	bus.Notify(events[1])
	bus.Notify(events[2])
	close(gate)

	assert.Equal(t, "event-1", receive(t, got).ID)
	assert.Equal(t, "event-2", receive(t, got).ID)
	select {
	case ev := <-got:
		t.Fatalf("expected %v to be dropped", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_UnsubscribeOnContextDone(t *testing.T) {
	bus := NewEventBus[fixtures.TestEvent](1)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan fixtures.TestEvent, 1)
	require.NoError(t, bus.Subscribe(ctx, "temp", nil, collect(got)))

	cancel()
	require.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subs) == 0
	}, time.Second, 5*time.Millisecond)

	bus.Notify(fixtures.NewTestEvent().Build())
	assert.Empty(t, got)

	// the name is free again
	require.NoError(t, bus.Subscribe(context.Background(), "temp", nil, collect(got)))
}
