package mediator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraskye/mediator/fixtures"
)

type cxProbe struct{ name string }

func TestCxAwareBuilder_BuildWithoutContextFails(t *testing.T) {
	m, err := NewCxAwareBuilder[*cxProbe, fixtures.TestEvent]().
		AddListenerFunc(func(fixtures.TestEvent) {}).
		Build()

	assert.ErrorIs(t, err, ErrNoContext)
	assert.Nil(t, m)

	am, err := NewCxAwareAsyncBuilder[*cxProbe, fixtures.TestEvent]().Build()
	assert.ErrorIs(t, err, ErrNoContext)
	assert.Nil(t, am)
}

func TestCxAwareBuilder_LastContextWins(t *testing.T) {
	var seen string
	b := NewCxAwareBuilder[*cxProbe, fixtures.TestEvent]()
	RegisterCx(b, func(ctx context.Context, m *CxAwareMediator[*cxProbe, fixtures.TestEvent], req fixtures.TestRequest, cx *cxProbe) error {
		seen = cx.name
		return nil
	})
	m, err := b.
		AddContext(&cxProbe{name: "first"}).
		AddContext(&cxProbe{name: "second"}).
		AddContext(&cxProbe{name: "third"}).
		Build()
	require.NoError(t, err)

	require.NoError(t, m.Send(t.Context(), fixtures.NewTestRequest().Build()))
	assert.Equal(t, "third", seen)
}

func TestCxAwareAsyncBuilder_LastContextWins(t *testing.T) {
	var seen string
	b := NewCxAwareAsyncBuilder[*cxProbe, fixtures.TestEvent]()
	RegisterCxAsync(b, func(ctx context.Context, m *CxAwareAsyncMediator[*cxProbe, fixtures.TestEvent], req fixtures.TestRequest, cx *cxProbe) error {
		seen = cx.name
		return nil
	})
	m, err := b.AddContext(&cxProbe{name: "first"}).AddContext(&cxProbe{name: "second"}).Build()
	require.NoError(t, err)

	require.NoError(t, m.Send(t.Context(), fixtures.NewTestRequest().Build()))
	assert.Equal(t, "second", seen)
}

func TestCxAwareBuilder_ZeroValueContextCounts(t *testing.T) {
	// a nil pointer is still a supplied context
	_, err := NewCxAwareBuilder[*cxProbe, fixtures.TestEvent]().AddContext(nil).Build()
	assert.NoError(t, err)
}

func TestBuilder_ConsumedAfterBuild(t *testing.T) {
	b := NewBuilder[fixtures.TestEvent]()
	b.Build()

	assert.PanicsWithValue(t, ErrBuilderConsumed, func() { b.Build() })
	assert.PanicsWithValue(t, ErrBuilderConsumed, func() { b.AddListenerFunc(func(fixtures.TestEvent) {}) })
	assert.PanicsWithValue(t, ErrBuilderConsumed, func() {
		Register(b, func(ctx context.Context, m *BasicMediator[fixtures.TestEvent], req fixtures.TestRequest) error {
			return nil
		})
	})
}

func TestCxAwareBuilder_ConsumedAfterFailedBuild(t *testing.T) {
	b := NewCxAwareAsyncBuilder[*cxProbe, fixtures.TestEvent]()
	_, err := b.Build()
	require.ErrorIs(t, err, ErrNoContext)

	assert.PanicsWithValue(t, ErrBuilderConsumed, func() { b.AddContext(&cxProbe{}) })
	assert.PanicsWithValue(t, ErrBuilderConsumed, func() { _, _ = b.Build() })
}

func TestAsyncBuilder_BuildKeepsListeners(t *testing.T) {
	spy := fixtures.NewListenerSpy[fixtures.TestEvent]()
	b := NewAsyncBuilder[fixtures.TestEvent]().AddListener(spy)
	m := b.Build()

	require.NoError(t, m.Publish(t.Context(), fixtures.NewTestEvent().Build()))
	require.NoError(t, m.Next(t.Context()))
	assert.Equal(t, 1, spy.Calls())
}

func TestRegister_DuplicateHandlerPanics(t *testing.T) {
	b := NewBuilder[fixtures.TestEvent]()
	Register(b, func(ctx context.Context, m *BasicMediator[fixtures.TestEvent], req fixtures.TestRequest) error {
		return nil
	})

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic on duplicate handler")
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrDuplicateHandler)
	}()

	Register(b, func(ctx context.Context, m *BasicMediator[fixtures.TestEvent], req fixtures.TestRequest) error {
		return nil
	})
}

func TestBuilder_NilArgumentsPanic(t *testing.T) {
	assert.Panics(t, func() { NewBuilder[fixtures.TestEvent]().AddListener(nil) })
	assert.Panics(t, func() { NewAsyncBuilder[fixtures.TestEvent]().Use(nil) })
	assert.Panics(t, func() {
		RegisterCx[*cxProbe, fixtures.TestRequest](NewCxAwareBuilder[*cxProbe, fixtures.TestEvent](), nil)
	})
}
